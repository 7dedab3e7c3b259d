package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/utils/events"
	"github.com/penoFahmi/e-arsip-sub000/utils/fcm"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"github.com/penoFahmi/e-arsip-sub000/utils/mailer"
	"github.com/sirupsen/logrus"
)

// Pusher sends a push notification to a topic. Implemented by *fcm.Client.
type Pusher interface {
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error
}

// Mailer sends an HTML email. Implemented by *mailer.Client.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// NotificationService delivers disposition events. Either channel may be nil
// when it is not configured; delivery failures are logged and dropped.
type NotificationService struct {
	pusher   Pusher
	mailer   Mailer
	settings *SettingService
}

func NewNotificationService(pusher Pusher, mail Mailer, settings *SettingService) *NotificationService {
	return &NotificationService{pusher: pusher, mailer: mail, settings: settings}
}

// Run consumes bus until ctx is cancelled or the channel is closed.
func (s *NotificationService) Run(ctx context.Context, bus <-chan events.DispositionEvent) {
	log := logger.App().WithField("component", "notifier")
	log.Info("disposition notifier started")
	for {
		select {
		case <-ctx.Done():
			log.Info("disposition notifier stopped")
			return
		case e, ok := <-bus:
			if !ok {
				return
			}
			s.Handle(ctx, e)
		}
	}
}

// Handle notifies the recipient of a new disposition, or the sender of a
// status change.
func (s *NotificationService) Handle(ctx context.Context, e events.DispositionEvent) {
	d := e.Disposition
	var target *models.User
	var title, headline string

	switch e.Type {
	case events.DispositionSent:
		target = d.KeUser
		title = "Disposisi baru"
		if d.DariUser != nil {
			headline = fmt.Sprintf("Anda menerima disposisi dari %s.", d.DariUser.Name)
		} else {
			headline = "Anda menerima disposisi baru."
		}
	case events.DispositionStatusChanged:
		target = d.DariUser
		title = "Status disposisi diperbarui"
		who := "Penerima"
		if d.KeUser != nil {
			who = d.KeUser.Name
		}
		headline = fmt.Sprintf("%s mengubah status disposisi dari %s menjadi %s.", who, e.OldStatus, d.StatusDisposisi)
	default:
		return
	}
	if target == nil {
		return
	}

	log := logger.App().WithFields(logrus.Fields{
		"event":          e.Type,
		"disposition_id": d.ID,
		"user_id":        target.ID,
	})

	if s.pusher != nil {
		data := map[string]string{
			"type":           string(e.Type),
			"disposition_id": strconv.FormatUint(uint64(d.ID), 10),
			"surat_masuk_id": strconv.FormatUint(uint64(e.Letter.ID), 10),
			"status":         string(d.StatusDisposisi),
		}
		body := fmt.Sprintf("%s Perihal: %s", headline, e.Letter.Perihal)
		if err := s.pusher.SendToTopic(ctx, fcm.TopicForUser(target.ID), title, body, data); err != nil {
			log.WithError(err).Warn("push notification failed")
		}
	}

	if s.mailer != nil && target.Email != nil && !target.HasPlaceholderEmail() {
		appName := models.DefaultSettings[models.SettingAppName]
		if s.settings != nil {
			if v, err := s.settings.Get(models.SettingAppName, appName); err == nil {
				appName = v
			}
		}
		html, err := mailer.RenderDisposition(mailer.DispositionMail{
			AppName:       appName,
			RecipientName: target.Name,
			Headline:      headline,
			NoAgenda:      e.Letter.NoAgenda,
			NoSurat:       e.Letter.NoSurat,
			Perihal:       e.Letter.Perihal,
			Sifat:         string(d.SifatDisposisi),
			Instruksi:     d.Instruksi,
			Catatan:       d.Catatan,
		})
		if err != nil {
			log.WithError(err).Warn("render disposition mail failed")
			return
		}
		if err := s.mailer.Send(*target.Email, fmt.Sprintf("[%s] %s", appName, title), html); err != nil {
			log.WithError(err).Warn("email notification failed")
		}
	}
}
