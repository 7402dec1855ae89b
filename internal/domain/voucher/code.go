package voucher

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength  = 6
)

// GenerateCode builds a voucher code as {PREFIX}-{6 random A-Z0-9 chars}.
// Randomness comes from crypto/rand; collisions are still possible and are
// caught by the unique index on the code column.
func GenerateCode(prefix string) (string, error) {
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(prefix))
	sb.WriteByte('-')

	max := big.NewInt(int64(len(codeCharset)))
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("voucher code entropy: %w", err)
		}
		sb.WriteByte(codeCharset[n.Int64()])
	}

	return sb.String(), nil
}
