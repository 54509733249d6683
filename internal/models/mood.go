package models

type Mood struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

// MoodEntry is implemented by the list records owned by a mood
// (genres, activity suggestions, relaxation activities).
type MoodEntry interface {
	EntryID() uint
	OwnerMoodID() uint
	OwnerMood() Mood
	Items() []string
	Assign(mood Mood, items []string)
}

// MoodEntryPtr constrains generic code to pointers of concrete entry structs.
type MoodEntryPtr[T any] interface {
	*T
	MoodEntry
}

// MoodEntryFilter narrows a listing to one mood, by name or by id.
type MoodEntryFilter struct {
	MoodName string
	MoodID   uint
}

type MoodGenre struct {
	ID     uint     `gorm:"primaryKey"`
	MoodID uint     `gorm:"not null;index"`
	Mood   Mood     `gorm:"constraint:OnDelete:CASCADE"`
	Genres []string `gorm:"serializer:json;not null"`
}

func (entry *MoodGenre) EntryID() uint     { return entry.ID }
func (entry *MoodGenre) OwnerMoodID() uint { return entry.MoodID }
func (entry *MoodGenre) OwnerMood() Mood   { return entry.Mood }
func (entry *MoodGenre) Items() []string   { return entry.Genres }

func (entry *MoodGenre) Assign(mood Mood, items []string) {
	entry.Mood = mood
	entry.MoodID = mood.ID
	entry.Genres = items
}

type ActivitySuggestion struct {
	ID         uint     `gorm:"primaryKey"`
	MoodID     uint     `gorm:"not null;index"`
	Mood       Mood     `gorm:"constraint:OnDelete:CASCADE"`
	Suggestion []string `gorm:"serializer:json;not null"`
}

func (entry *ActivitySuggestion) EntryID() uint     { return entry.ID }
func (entry *ActivitySuggestion) OwnerMoodID() uint { return entry.MoodID }
func (entry *ActivitySuggestion) OwnerMood() Mood   { return entry.Mood }
func (entry *ActivitySuggestion) Items() []string   { return entry.Suggestion }

func (entry *ActivitySuggestion) Assign(mood Mood, items []string) {
	entry.Mood = mood
	entry.MoodID = mood.ID
	entry.Suggestion = items
}

type RelaxationActivity struct {
	ID       uint     `gorm:"primaryKey"`
	MoodID   uint     `gorm:"not null;index"`
	Mood     Mood     `gorm:"constraint:OnDelete:CASCADE"`
	Activity []string `gorm:"serializer:json;not null"`
}

func (entry *RelaxationActivity) EntryID() uint     { return entry.ID }
func (entry *RelaxationActivity) OwnerMoodID() uint { return entry.MoodID }
func (entry *RelaxationActivity) OwnerMood() Mood   { return entry.Mood }
func (entry *RelaxationActivity) Items() []string   { return entry.Activity }

func (entry *RelaxationActivity) Assign(mood Mood, items []string) {
	entry.Mood = mood
	entry.MoodID = mood.ID
	entry.Activity = items
}
