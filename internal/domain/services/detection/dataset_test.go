package detection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeypot-lab/pkg/logger"
)

func newTestPatternDB(t *testing.T) *PatternDB {
	t.Helper()
	return NewPatternDB(logger.Nop())
}

func TestPatternDBExactMatch(t *testing.T) {
	db := newTestPatternDB(t)
	db.Add(Pattern{
		Fingerprint: Fingerprint("your bank account will be blocked today update kyc"),
		Category:    "banking",
		Confidence:  95,
	})

	// same words reordered, different numbers: still an exact fingerprint hit
	match := db.Match("UPDATE KYC today: your bank account will be blocked!")
	require.NotNil(t, match)
	assert.Equal(t, MatchSourceExact, match.Source)
	assert.Equal(t, "banking", match.Category)
	assert.Equal(t, 95.0, match.Confidence)
}

func TestPatternDBFuzzyMatch(t *testing.T) {
	db := newTestPatternDB(t)
	db.Add(Pattern{
		Fingerprint: Fingerprint("congratulations you won lottery prize claim fee pay"),
		Category:    "prize",
		Confidence:  90,
	})

	// most pattern tokens present plus extras: fuzzy hit with penalty
	match := db.Match("congratulations sir you won lottery prize, claim it, pay fee fast")
	require.NotNil(t, match)
	assert.Equal(t, MatchSourceFuzzy, match.Source)
	assert.Equal(t, "prize", match.Category)
	assert.Equal(t, 81.0, match.Confidence)
}

func TestPatternDBNoMatch(t *testing.T) {
	db := newTestPatternDB(t)
	db.Add(Pattern{
		Fingerprint: Fingerprint("congratulations you won lottery prize"),
		Category:    "prize",
		Confidence:  90,
	})

	assert.Nil(t, db.Match("let us meet for coffee tomorrow"))
	assert.Nil(t, db.Match(""))
}

func TestPatternDBLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	content := `{"patterns":[
		{"text":"your account is blocked verify kyc now","category":"banking","confidence":95},
		{"text":"you won the lucky draw prize","category":"prize","confidence":90}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	db := newTestPatternDB(t)
	require.NoError(t, db.LoadFile(path))
	assert.Equal(t, 2, db.Len())

	match := db.Match("verify KYC now, your account is blocked")
	require.NotNil(t, match)
	assert.Equal(t, "banking", match.Category)
}

func TestPatternDBLoadFileMissing(t *testing.T) {
	db := newTestPatternDB(t)
	assert.Error(t, db.LoadFile("does/not/exist.json"))
}
