package utils

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// HashSenha gera um hash bcrypt para a senha informada.
func HashSenha(senha string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	return string(hash), err
}

// VerificarSenha compara hash bcrypt com a senha em texto puro.
func VerificarSenha(hash, senha string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha))
	return err == nil
}

// GerarSenhaTemporaria devolve uma senha alfanumérica aleatória de 12
// caracteres, usada quando um usuário é criado sem senha definida.
func GerarSenhaTemporaria() (string, error) {
	const alfabeto = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	senha := make([]byte, 12)
	for i := range senha {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alfabeto))))
		if err != nil {
			return "", err
		}
		senha[i] = alfabeto[idx.Int64()]
	}
	return string(senha), nil
}
