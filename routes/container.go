package routes

import (
	"github.com/penoFahmi/e-arsip-sub000/services"
	"github.com/penoFahmi/e-arsip-sub000/utils/storage"
	"gorm.io/gorm"
)

// Container holds the services shared by the HTTP layer and background workers.
type Container struct {
	DB           *gorm.DB
	Store        storage.Store
	Policy       *services.Policy
	Settings     *services.SettingService
	Units        *services.UnitService
	Users        *services.UserService
	Auth         *services.AuthService
	Dispositions *services.DispositionService
	Incoming     *services.IncomingService
	Outgoing     *services.OutgoingService
	Reports      *services.ReportService
}

func NewContainer(db *gorm.DB, store storage.Store, sekretariatKode string) *Container {
	policy := services.NewPolicy(sekretariatKode)
	seq := services.NewSequenceService()
	settings := services.NewSettingService(db)
	users := services.NewUserService(db)
	dispositions := services.NewDispositionService(db, store, policy)
	incoming := services.NewIncomingService(db, store, seq, policy, dispositions)
	outgoing := services.NewOutgoingService(db, store, seq, policy)

	return &Container{
		DB:           db,
		Store:        store,
		Policy:       policy,
		Settings:     settings,
		Units:        services.NewUnitService(db),
		Users:        users,
		Auth:         services.NewAuthService(db, users),
		Dispositions: dispositions,
		Incoming:     incoming,
		Outgoing:     outgoing,
		Reports:      services.NewReportService(incoming, outgoing, settings),
	}
}
