package batchers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stb-telemetry/internal/models"
	"stb-telemetry/internal/shared/validators"
	"stb-telemetry/internal/symbols"
)

// Header constants written into every batch.
const (
	DocumentVersion = "1.0.0"
	LibraryName     = "stb-telemetry"
	LibraryVersion  = "0.1.0"
	DeviceType      = "STB"
)

// Identity holds the per-device header fields shared by every batch an engine writes.
type Identity struct {
	DeviceName      string `validate:"required"`
	HardwareVersion string `validate:"required"`
	HardwareID      []byte `validate:"required"`
	SoftwareVersion string `validate:"required"`
	ClientID        string `validate:"required,excludesall=/\\"`
	CardID          string
	AmsID           []byte
	AmsPanel        int64 `validate:"min=0"`
}

var identityValidator = validators.New()

func (id Identity) validate() error {
	err := identityValidator.Struct(id)
	if err == nil {
		return nil
	}
	var fieldErrors validators.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return errInvalidIdentity(err.Error(), err)
	}
	fields := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return errInvalidIdentity("invalid identity: "+strings.Join(fields, ", "), err)
}

func (id Identity) clone() Identity {
	c := id
	c.HardwareID = append([]byte(nil), id.HardwareID...)
	if id.AmsID != nil {
		c.AmsID = append([]byte(nil), id.AmsID...)
	}
	return c
}

// packHeader builds the batch document: header fields in a fixed order followed by the list.
func (id Identity) packHeader(flushedAt time.Time, sequence int64, batch []models.FieldMap) models.FieldMap {
	m := models.NewFieldMap(15)
	m.Set(symbols.DocVersion, DocumentVersion)
	m.Set(symbols.Timestamp, flushedAt.UTC())
	m.Set(symbols.Sequence, sequence)
	m.Set(symbols.LibraryName, LibraryName)
	m.Set(symbols.LibraryVersion, LibraryVersion)
	m.Set(symbols.DeviceType, DeviceType)
	m.Set(symbols.DeviceName, id.DeviceName)
	m.Set(symbols.DeviceVariant, id.HardwareVersion)
	m.Set(symbols.DeviceHwID, id.HardwareID)
	m.Set(symbols.DeviceClientID, id.ClientID)
	m.Set(symbols.DeviceCaCard, id.CardID)
	m.Set(symbols.CustomerAmsID, id.AmsID)
	m.Set(symbols.CustomerPanel, id.AmsPanel)
	m.Set(symbols.SoftwareVersion, id.SoftwareVersion)
	m.Set(symbols.Batch, batch)
	return m
}
