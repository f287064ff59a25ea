package util

import "github.com/google/uuid"

// NovaChave gera chave aleatória para nós criados por append-child nos
// backends que não geram chave própria.
func NovaChave() string {
	return uuid.NewString()
}
