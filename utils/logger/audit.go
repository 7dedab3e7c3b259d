package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditAction writes one entry to the audit logger.
func AuditAction(action string, actorID uint, resourceType string, resourceID uint, details logrus.Fields) {
	fields := logrus.Fields{
		"action":        action,
		"user_id":       actorID,
		"resource_type": resourceType,
		"resource_id":   resourceID,
	}
	for k, v := range details {
		fields[k] = v
	}
	Audit().WithFields(fields).Info(action)
}
