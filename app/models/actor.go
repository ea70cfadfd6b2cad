package models

// Actor identifies the teacher or admin performing a write. The engine
// records it on audit columns only and never branches on it.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
