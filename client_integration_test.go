package flaglite_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	flaglite "github.com/flaglite/flaglite-go"
	"github.com/stretchr/testify/suite"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

// integrationFlagName is the flag expected to exist in the test environment.
const integrationFlagName = "integration-test-flag"

// reNonWordOnly is a regular expression that matches any non-word characters.
var reNonWordOnly = regexp.MustCompile(`\W+`)

// IntegrationTestSuite exercises the client against the real FlagLite API,
// recording HTTP interactions with VCR. It requires FLAGLITE_API_KEY and is
// skipped otherwise.
type IntegrationTestSuite struct {
	suite.Suite
	apiKey            string
	recorder          *recorder.Recorder
	originalTransport http.RoundTripper
}

// SetupSuite is called once before all tests in the suite.
func (s *IntegrationTestSuite) SetupSuite() {
	s.apiKey = os.Getenv(flaglite.EnvAPIKey)
	if s.apiKey == "" {
		s.T().Skipf("%s not set, skipping integration tests", flaglite.EnvAPIKey)
	}
}

// setupVCR configures go-vcr to record HTTP interactions for one test. The
// client's transports fall back to http.DefaultTransport, so swapping it in
// is enough to capture every request.
func (s *IntegrationTestSuite) setupVCR(testName string) {
	cassetteName := filepath.Join("testdata", reNonWordOnly.ReplaceAllString(testName, "_"))
	s.Require().NoError(os.MkdirAll(filepath.Dir(cassetteName), 0755))

	removeAuthHook := func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	}

	r, recorderErr := recorder.NewWithOptions(&recorder.Options{
		CassetteName:       cassetteName,
		Mode:               recorder.ModeRecordOnly,
		SkipRequestLatency: true,
	})
	s.Require().NoError(recorderErr)
	r.AddHook(removeAuthHook, recorder.BeforeSaveHook)

	s.originalTransport = http.DefaultTransport
	http.DefaultTransport = r
	s.recorder = r
}

// teardownVCR saves the cassette and restores the default transport.
func (s *IntegrationTestSuite) teardownVCR() {
	if s.recorder != nil {
		s.Require().NoError(s.recorder.Stop())
		s.recorder = nil
	}
	if s.originalTransport != nil {
		http.DefaultTransport = s.originalTransport
		s.originalTransport = nil
	}
}

func (s *IntegrationTestSuite) newClient(options ...flaglite.Option) *flaglite.Client {
	client, err := flaglite.New(context.Background(), s.apiKey, options...)
	s.Require().NoError(err)
	return client
}

func (s *IntegrationTestSuite) TestEnabledKnownFlag() {
	s.setupVCR(s.T().Name())
	defer s.teardownVCR()

	client := s.newClient()
	defer client.Close()

	// The decision itself depends on the environment's flag configuration;
	// what matters is that the call completes and is cached.
	first := client.Enabled(context.Background(), integrationFlagName)
	second := client.Enabled(context.Background(), integrationFlagName)
	s.Equal(first, second)
}

func (s *IntegrationTestSuite) TestEnabledUnknownFlagIsDisabled() {
	s.setupVCR(s.T().Name())
	defer s.teardownVCR()

	client := s.newClient()
	defer client.Close()

	s.False(client.Enabled(context.Background(), "flag-that-does-not-exist",
		flaglite.WithDefault(true)))
}

func (s *IntegrationTestSuite) TestEnabledSyncMatchesEnabled() {
	s.setupVCR(s.T().Name())
	defer s.teardownVCR()

	client := s.newClient(flaglite.WithCacheDisabled())
	defer client.Close()

	s.Equal(
		client.Enabled(context.Background(), integrationFlagName),
		client.EnabledSync(integrationFlagName),
	)
}

func (s *IntegrationTestSuite) TestBadAPIKeyReturnsFallback() {
	s.setupVCR(s.T().Name())
	defer s.teardownVCR()

	client, err := flaglite.New(context.Background(), "bogus-key")
	s.Require().NoError(err)
	defer client.Close()

	s.True(client.Enabled(context.Background(), integrationFlagName,
		flaglite.WithDefault(true)))
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
