package club

// Club is one organization whose matches referees postulate for.
type Club struct {
	ID        string
	Name      string
	ShortCode string
}
