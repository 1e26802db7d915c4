package repository

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(string) (string, bool) { return "", false }

func (NoopCache) Set(string, string) error { return nil }

func (NoopCache) Len() int { return 0 }
