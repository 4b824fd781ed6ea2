package models

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WorkingHours describes the studio's opening window on one weekday.
// IsWorkDay=false means closed all day (Friday and Saturday).
type WorkingHours struct {
	DayOfWeek DayOfWeek
	StartTime string // "HH:MM" 24h
	EndTime   string
	IsWorkDay bool
}

// BusinessWeek is the studio schedule: Sunday through Thursday
// 09:00-20:00, closed Friday and Saturday.
var BusinessWeek = map[DayOfWeek]WorkingHours{
	Sunday:    {DayOfWeek: Sunday, StartTime: "09:00", EndTime: "20:00", IsWorkDay: true},
	Monday:    {DayOfWeek: Monday, StartTime: "09:00", EndTime: "20:00", IsWorkDay: true},
	Tuesday:   {DayOfWeek: Tuesday, StartTime: "09:00", EndTime: "20:00", IsWorkDay: true},
	Wednesday: {DayOfWeek: Wednesday, StartTime: "09:00", EndTime: "20:00", IsWorkDay: true},
	Thursday:  {DayOfWeek: Thursday, StartTime: "09:00", EndTime: "20:00", IsWorkDay: true},
	Friday:    {DayOfWeek: Friday, IsWorkDay: false},
	Saturday:  {DayOfWeek: Saturday, IsWorkDay: false},
}

// BlockedSlot is a time the admin closed manually for a given date,
// independent of existing appointments.
type BlockedSlot struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Date  string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_blocked_slot,priority:1"` // YYYY-MM-DD
	Time  string `json:"time" gorm:"size:5;not null;uniqueIndex:idx_blocked_slot,priority:2"`  // HH:MM
}
