package models

// Service is a catalog entry. The studio offers a fixed menu, so the
// catalog ships with the binary instead of living in a table.
type Service struct {
	Name        string  `json:"name"`
	NameHe      string  `json:"name_he"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration"`
}

var Services = []Service{
	{Name: "Gel Polish", NameHe: "לק ג'ל", Price: 120, DurationMin: 60},
	{Name: "Anatomical Structure", NameHe: "מבנה אנטומי", Price: 140, DurationMin: 75},
	{Name: "Gel Fill", NameHe: "מילוי ג'ל", Price: 150, DurationMin: 60},
	{Name: "Single Nail Extension", NameHe: "הארכת ציפורן בודדת", Price: 10, DurationMin: 10},
	{Name: "Building", NameHe: "בנייה", Price: 300, DurationMin: 120},
	{Name: "Eyebrows", NameHe: "גבות", Price: 50, DurationMin: 20},
	{Name: "Mustache", NameHe: "שפם", Price: 15, DurationMin: 10},
	{Name: "Eyebrow Tinting", NameHe: "צביעת גבות", Price: 30, DurationMin: 15},
}

// FindService matches either the English or Hebrew name.
func FindService(name string) *Service {
	for i := range Services {
		if Services[i].Name == name || Services[i].NameHe == name {
			return &Services[i]
		}
	}
	return nil
}
