package engine

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozontech/propescape/consts"
)

func engines() []Engine {
	return []Engine{NewStdlib(), NewRegexp2(0)}
}

func mustMatch(t *testing.T, e Engine, p, s string) bool {
	t.Helper()
	m, err := e.Compile(p)
	require.NoError(t, err, "%s: %s", e.Name(), p)
	ok, err := m.MatchString(s)
	require.NoError(t, err)
	return ok
}

func TestScriptAliases(t *testing.T) {
	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			for _, p := range []string{
				`\A\p{Script=Tai_Tham}\z`,
				`\A\p{Script=Lana}\z`,
				`\A\p{sc=Tai_Tham}\z`,
				`\A\p{sc=Lana}\z`,
			} {
				assert.True(t, mustMatch(t, e, p, "\u1A20"), p)
				assert.False(t, mustMatch(t, e, p, "\u1A5F"), p)
				assert.False(t, mustMatch(t, e, p, "a"), p)
			}

			assert.True(t, mustMatch(t, e, `\A\P{sc=Lana}\z`, "\u1A5F"))
			assert.False(t, mustMatch(t, e, `\A\P{sc=Lana}\z`, "\u1AAD"))
		})
	}
}

func TestSupplementaryIsOneCharacter(t *testing.T) {
	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			// U+10437 DESERET SMALL LETTER YEE
			assert.True(t, mustMatch(t, e, `\A\p{sc=Dsrt}\z`, "\U00010437"))
			assert.True(t, mustMatch(t, e, `\A\P{sc=Latn}\z`, "\U00010437"))
			assert.True(t, mustMatch(t, e, `\A\p{Script=Deseret}+\z`, "\U00010437\U00010400"))
		})
	}
}

func TestLoneValuesPassThrough(t *testing.T) {
	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			assert.True(t, mustMatch(t, e, `\A\p{Lu}\z`, "A"))
			assert.True(t, mustMatch(t, e, `\A\p{Greek}\z`, "\u03BB"))
			assert.True(t, mustMatch(t, e, `\A\p{Grek}\z`, "\u03BB"))
		})
	}
}

func TestAliasesResolvedBeforeEngine(t *testing.T) {
	_, err := regexp.Compile(`\p{Grek}`)
	require.Error(t, err, "go regexp knows long script names only")

	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			for _, p := range []string{`\p{Grek}`, `\p{sc=Grek}`, `\p{Script=Greek}`} {
				assert.True(t, mustMatch(t, e, p, "\u03BB"), p)
				assert.False(t, mustMatch(t, e, p, "a"), p)
			}
		})
	}
}

func TestRejectedPatterns(t *testing.T) {
	for _, e := range engines() {
		t.Run(e.Name(), func(t *testing.T) {
			_, err := e.Compile(`\p{scx=Lana}`)
			assert.ErrorIs(t, err, consts.ErrUnsupported)

			_, err = e.Compile(`\p{sc=Klingon}`)
			assert.ErrorIs(t, err, consts.ErrUnknownScript)

			_, err = e.Compile(`\p{Block=Tai_Tham}`)
			assert.ErrorIs(t, err, consts.ErrUnknownProp)

			_, err = e.Compile(`\p{NotAProperty}`)
			assert.Error(t, err)
		})
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		e, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, e.Name())
	}

	_, err := ByName("pcre")
	assert.ErrorIs(t, err, consts.ErrUnknownEngine)
}
