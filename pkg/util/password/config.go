package password

import "github.com/Alijeyrad/officehours_backend/config"

// FromCentralConfig maps config.PasswordConfig onto Argon2id Params.
// Zero values are filled in by NewHasher.
func FromCentralConfig(c config.PasswordConfig) Params {
	return Params{
		Memory:      c.MemoryKiB,
		Iterations:  c.Iterations,
		Parallelism: c.Parallelism,
		SaltLength:  c.SaltLength,
		KeyLength:   c.KeyLength,
	}
}
