package types

// Backend persists State between runs. Attach must be called before Save
// or Load; Detach releases resources and is idempotent.
type Backend interface {
	Attach(config Config) error
	Detach() error
	Save(st State) error
	Load() (State, error)
}
