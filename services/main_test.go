package services

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
	"github.com/penoFahmi/e-arsip-sub000/utils/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	cfg := logger.DefaultConfig()
	cfg.Level = "error"
	_ = logger.Init(cfg)
	os.Exit(m.Run())
}

// testEnv wires every service over one in-memory database.
//
// Organisation:
//
//	SEKRETARIAT  - sekre (staf)
//	KEU          - kabid (level_2), kasubid (level_3), staf (staf)
//	KEU-ANG      - child of KEU, no members
//	PAD          - pad (level_2)
//
// kepala (level_1) and admin (super_admin) have no unit.
type testEnv struct {
	db    *gorm.DB
	store *storage.MemoryStore

	policy       *Policy
	seq          *SequenceService
	settings     *SettingService
	units        *UnitService
	users        *UserService
	auth         *AuthService
	dispositions *DispositionService
	incoming     *IncomingService
	outgoing     *OutgoingService
	reports      *ReportService

	sekretariat, keu, keuAnggaran, pad models.Unit

	admin, kepala, sekre, kabid, kasubid, staf, padHead models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	e := &testEnv{db: db, store: storage.NewMemoryStore()}

	e.policy = NewPolicy("SEKRETARIAT")
	e.seq = NewSequenceService()
	e.settings = NewSettingService(db)
	e.units = NewUnitService(db)
	e.users = NewUserService(db)
	e.auth = NewAuthService(db, e.users)
	e.dispositions = NewDispositionService(db, e.store, e.policy)
	e.incoming = NewIncomingService(db, e.store, e.seq, e.policy, e.dispositions)
	e.outgoing = NewOutgoingService(db, e.store, e.seq, e.policy)
	e.reports = NewReportService(e.incoming, e.outgoing, e.settings)

	e.sekretariat = testutil.CreateUnit(t, db, "SEKRETARIAT", nil)
	e.keu = testutil.CreateUnit(t, db, "KEU", nil)
	e.keuAnggaran = testutil.CreateUnit(t, db, "KEU-ANG", &e.keu.ID)
	e.pad = testutil.CreateUnit(t, db, "PAD", nil)

	e.admin = testutil.CreateUser(t, db, "admin", models.RoleSuperAdmin, nil)
	e.kepala = testutil.CreateUser(t, db, "kepala", models.RoleLevel1, nil)
	e.sekre = testutil.CreateUser(t, db, "sekre", models.RoleStaf, &e.sekretariat.ID)
	e.kabid = testutil.CreateUser(t, db, "kabid", models.RoleLevel2, &e.keu.ID)
	e.kasubid = testutil.CreateUser(t, db, "kasubid", models.RoleLevel3, &e.keu.ID)
	e.staf = testutil.CreateUser(t, db, "staf", models.RoleStaf, &e.keu.ID)
	e.padHead = testutil.CreateUser(t, db, "padhead", models.RoleLevel2, &e.pad.ID)
	return e
}

// register records a minimal incoming letter as the secretariat clerk.
func (e *testEnv) register(t *testing.T, noSurat string, unitID *uint) *models.IncomingLetter {
	t.Helper()
	letter, err := e.incoming.Register(context.Background(), &e.sekre, IncomingInput{
		NoSurat:        noSurat,
		Pengirim:       "Dinas A",
		Perihal:        "Undangan Rapat",
		SifatSurat:     models.SifatBiasa,
		Media:          models.MediaFisik,
		BidangTujuanID: unitID,
	})
	require.NoError(t, err)
	return letter
}

// dispose sends a disposition and fails the test on error.
func (e *testEnv) dispose(t *testing.T, from *models.User, letterID uint, to *models.User, parentID *uint) *models.Disposition {
	t.Helper()
	d, err := e.dispositions.Create(context.Background(), from, DispositionInput{
		SuratMasukID:   letterID,
		KeUserID:       to.ID,
		ParentID:       parentID,
		Instruksi:      "Tindak lanjuti",
		SifatDisposisi: models.DisposisiBiasa,
	})
	require.NoError(t, err)
	return d
}

func (e *testEnv) logs(t *testing.T, letterID uint) []models.ActionLog {
	t.Helper()
	var logs []models.ActionLog
	require.NoError(t, e.db.Where("surat_masuk_id = ?", letterID).Order("id ASC").Find(&logs).Error)
	return logs
}

func pdfFile(name string) storage.File {
	body := "%PDF-1.4 test"
	return storage.File{Name: name, ContentType: "application/pdf", Size: int64(len(body)), Body: strings.NewReader(body)}
}
