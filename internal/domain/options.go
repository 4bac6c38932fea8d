package domain

// Store keys understood by Store.Get and Store.Put
const (
	KeyToken = "token"
	KeyList  = "list"
)

// Choices offered when the destination is occupied
const (
	ChoiceOverwrite = "overwrite"
	ChoiceQuit      = "quit"
)

// OccupiedChoices returns the two options offered for an occupied destination
func OccupiedChoices() []string {
	return []string{ChoiceOverwrite, ChoiceQuit}
}
