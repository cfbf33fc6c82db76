// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
// An empty hash (account without a password) never matches.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	if existingHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

var (
	decoyOnce sync.Once
	decoyHash string
)

// BurnPasswordCheck performs a comparison against a throwaway hash so that a
// lookup miss costs the same as a password mismatch.
func BurnPasswordCheck(plainTextPassword string) {
	decoyOnce.Do(func() {
		hashed, err := bcrypt.GenerateFromPassword([]byte("decoy-password"), bcrypt.DefaultCost)
		if err == nil {
			decoyHash = string(hashed)
		}
	})
	_ = CheckPasswordHash(plainTextPassword, decoyHash)
}
