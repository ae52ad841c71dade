package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTermsAndQualifiers(t *testing.T) {
	q, err := Parse("web framework language:go stars:>100")
	require.NoError(t, err)

	assert.Equal(t, []string{"web", "framework"}, q.Terms)
	assert.Equal(t, map[string]string{
		"language": "go",
		"stars":    ">100",
	}, q.Qualifiers)
}

func TestParseQuotedQualifierValue(t *testing.T) {
	q, err := Parse(`bug label:"needs triage"`)
	require.NoError(t, err)

	assert.Equal(t, []string{"bug"}, q.Terms)
	assert.Equal(t, "needs triage", q.Qualifiers["label"])
}

func TestParseQualifierKeyLowercased(t *testing.T) {
	q, err := Parse("Language:Go")
	require.NoError(t, err)
	assert.Equal(t, "Go", q.Qualifiers["language"], "keys fold, values keep their case")
}

func TestParseTermsCaseFolded(t *testing.T) {
	q, err := Parse("WebServer STRASSE")
	require.NoError(t, err)
	assert.Equal(t, []string{"webserver", "strasse"}, q.Terms)
}

func TestParseDuplicateQualifierLastWins(t *testing.T) {
	q, err := Parse("state:open state:closed")
	require.NoError(t, err)
	assert.Equal(t, "closed", q.Qualifiers["state"])
}

func TestParseNonQualifierColonToken(t *testing.T) {
	// A token whose prefix is not a plain identifier is a term, not a
	// qualifier.
	q, err := Parse("3:2 :leading plain")
	require.NoError(t, err)
	assert.Empty(t, q.Qualifiers)
	assert.Equal(t, []string{"3:2", ":leading", "plain"}, q.Terms)
}

func TestParseEmptyQuery(t *testing.T) {
	q, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, q.Terms)
	assert.Empty(t, q.Qualifiers)
}

func TestParseMismatchedQuotes(t *testing.T) {
	_, err := Parse(`label:"unterminated`)
	require.Error(t, err)

	var malformed *MalformedQueryError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, `label:"unterminated`, malformed.Query)
}
