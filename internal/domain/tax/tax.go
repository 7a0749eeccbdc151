// internal/domain/tax/tax.go
package tax

// Type is the tax category.
type Type string

const (
	TypeAcquisition Type = "acquisition"
	TypeProperty    Type = "property"
	TypeOther       Type = "other"
)

// Label returns the Korean display label used in notification messages.
func (t Type) Label() string {
	switch t {
	case TypeAcquisition:
		return "취득세"
	case TypeProperty:
		return "재산세"
	default:
		return "기타세"
	}
}

// Tax is one tax obligation row. This service only reads it; payment
// status and amounts are owned by the back-office CRUD screens.
type Tax struct {
	ID          string
	StationID   string
	StationName string // joined from charging_stations
	Type        Type
	Amount      int64
	DueDate     string // civil date, "YYYY-MM-DD"
}
