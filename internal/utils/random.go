package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	letterBytes       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberBytes       = "0123456789"
	alphanumeric      = letterBytes + numberBytes
	upperAlphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

func GenerateRandomString(length int) string {
	return generateRandom(length, alphanumeric)
}

func GenerateRandomNumericString(length int) string {
	return generateRandom(length, numberBytes)
}

// GenerateRequestID produces a human-readable booking identifier, e.g.
// CR1756712345678X9QD.
func GenerateRequestID() string {
	return fmt.Sprintf("%s%d%s", RequestIDPrefix, time.Now().UnixMilli(), generateRandom(4, upperAlphanumeric))
}

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, _ := rand.Int(rand.Reader, charsetLength)
		result[i] = charset[num.Int64()]
	}

	return string(result)
}
