package flaglite

import of "github.com/open-feature/go-sdk/openfeature"

// SubjectKeys are the evaluation-context keys checked, in order, for the
// FlagLite user ID when evaluating through the OpenFeature [Provider]. The
// targeting key is canonical; the rest cover common spellings. The first key
// present with a non-empty string value wins.
var SubjectKeys = []string{
	of.TargetingKey,
	"user_id",
	"userId",
	"userID",
	"UserId",
	"UserID",
}

// subjectFromContext extracts the FlagLite user ID from an OpenFeature
// evaluation context. It returns "" when no subject key is present, which
// the client treats as an evaluation with no user.
func subjectFromContext(evalCtx of.FlattenedContext) string {
	for _, key := range SubjectKeys {
		value, ok := evalCtx[key]
		if !ok {
			continue
		}
		if s, ok := value.(string); ok && s != "" {
			return s
		}
	}
	return ""
}
