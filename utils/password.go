package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Coût bcrypt pour le hachage des mots de passe des adhérents
const passwordHashCost = bcrypt.DefaultCost

// HashPassword hache un mot de passe d'adhérent avec bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("erreur lors du hachage du mot de passe: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPassword vérifie si un mot de passe correspond à son hash
func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
