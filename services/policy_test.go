package services

import (
	"context"
	"testing"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalViewerTier(t *testing.T) {
	e := newTestEnv(t)

	assert.True(t, e.policy.IsGlobalViewer(&e.admin))
	assert.True(t, e.policy.IsGlobalViewer(&e.kepala))
	assert.True(t, e.policy.IsGlobalViewer(&e.sekre))
	assert.False(t, e.policy.IsGlobalViewer(&e.kabid))
	assert.False(t, e.policy.IsGlobalViewer(&e.staf))
	assert.False(t, e.policy.IsGlobalViewer(nil))

	// without a configured code nobody is in the secretariat
	assert.False(t, NewPolicy("").InSecretariat(&e.sekre))
}

func TestCanViewLetterMatrix(t *testing.T) {
	e := newTestEnv(t)
	toKeu := e.register(t, "1/KEU", &e.keu.ID)
	toPad := e.register(t, "2/PAD", &e.pad.ID)
	e.dispose(t, &e.kepala, toPad.ID, &e.kasubid, nil)

	cases := []struct {
		name   string
		user   *models.User
		letter uint
		want   bool
	}{
		{"admin sees all", &e.admin, toPad.ID, true},
		{"level 1 sees all", &e.kepala, toKeu.ID, true},
		{"secretariat sees all", &e.sekre, toPad.ID, true},
		{"unit member sees own unit", &e.staf, toKeu.ID, true},
		{"unit member misses other unit", &e.staf, toPad.ID, false},
		{"recipient sees disposed letter", &e.kasubid, toPad.ID, true},
		{"other unit head misses", &e.padHead, toKeu.ID, false},
		{"unknown letter", &e.admin, 9999, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := e.policy.CanViewLetter(e.db, tc.user, tc.letter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}

	_, err := e.policy.CanViewLetter(e.db, nil, toKeu.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreatorSeesOwnLetter(t *testing.T) {
	e := newTestEnv(t)
	letter, err := e.incoming.Register(context.Background(), &e.staf, IncomingInput{
		NoSurat:        "1/OWN",
		Pengirim:       "Dinas A",
		Perihal:        "Titipan",
		BidangTujuanID: &e.pad.ID,
	})
	require.NoError(t, err)

	ok, err := e.policy.CanViewLetter(e.db, &e.staf, letter.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	manage, err := e.policy.CanManageLetter(&e.staf, letter)
	require.NoError(t, err)
	assert.True(t, manage)

	manage, err = e.policy.CanManageLetter(&e.padHead, letter)
	require.NoError(t, err)
	assert.False(t, manage)
}

func TestDispositionRules(t *testing.T) {
	e := newTestEnv(t)

	for _, u := range []*models.User{&e.admin, &e.kepala, &e.kabid, &e.kasubid} {
		ok, err := e.policy.CanCreateDisposition(u)
		require.NoError(t, err)
		assert.True(t, ok, u.Username)
	}
	for _, u := range []*models.User{&e.staf, &e.sekre} {
		ok, err := e.policy.CanCreateDisposition(u)
		require.NoError(t, err)
		assert.False(t, ok, u.Username)
	}

	d := &models.Disposition{DariUserID: e.kepala.ID, KeUserID: e.kabid.ID}
	ok, _ := e.policy.CanUpdateDisposition(&e.kabid, d)
	assert.True(t, ok)
	ok, _ = e.policy.CanUpdateDisposition(&e.kepala, d)
	assert.False(t, ok)
	_, err := e.policy.CanUpdateDisposition(&e.kabid, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOutgoingRules(t *testing.T) {
	e := newTestEnv(t)
	letter := &models.OutgoingLetter{BidangID: &e.keu.ID, CreatedByID: e.staf.ID}

	assert.True(t, e.policy.CanViewOutgoing(&e.kepala, letter))
	assert.True(t, e.policy.CanViewOutgoing(&e.kabid, letter))
	assert.False(t, e.policy.CanViewOutgoing(&e.padHead, letter))

	assert.True(t, e.policy.CanManageOutgoing(&e.staf, letter))
	assert.True(t, e.policy.CanManageOutgoing(&e.kabid, letter))
	assert.True(t, e.policy.CanManageOutgoing(&e.sekre, letter))
	assert.False(t, e.policy.CanManageOutgoing(&e.kepala, letter))
	assert.False(t, e.policy.CanManageOutgoing(&e.padHead, letter))
}
