package auth

import (
	"github.com/alexedwards/argon2id"
)

var params = &argon2id.Params{
	Memory:      64 * 1024, // 64 MB
	Iterations:  3,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Hash gera um hash Argon2id (inclui os parâmetros dentro do próprio hash).
func Hash(senha string) (string, error) {
	return argon2id.CreateHash(senha, params)
}

// Verificar compara a senha com o hash Argon2id (lendo parâmetros do próprio hash).
func Verificar(senha, hashCodificado string) (bool, error) {
	return argon2id.ComparePasswordAndHash(senha, hashCodificado)
}
