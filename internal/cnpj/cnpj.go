// Package cnpj implements the CNPJ number model: the 12-digit base composed
// of root and branch, the modulo-11 check digit pair and the canonical raw
// and masked renderings.
//
// The check digit algorithm is the official one. Both digits are computed
// from fixed weight vectors applied most-significant digit first; any other
// weighting scheme produces numbers the tax authority rejects.
package cnpj

import (
	"fmt"
	"strings"

	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
)

const (
	// RootMax is the highest 8-digit root.
	RootMax = 99_999_999

	// BranchMin and BranchMax bound the 4-digit branch. Branch 0000 is
	// never issued.
	BranchMin = 1
	BranchMax = 9999

	// Base12Space is the size of the checksum input domain, 10^12.
	Base12Space = 1_000_000_000_000

	// repunit12 is 111111111111; every degenerate base (twelve identical
	// digits) is one of its ten multiples d*repunit12, d in 0..9.
	repunit12 = 111_111_111_111
)

// Official modulo-11 weight vectors, most-significant digit first.
var (
	firstWeights  = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	secondWeights = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Base12 is the concatenation root‖branch as an integer in [0, 10^12).
type Base12 uint64

// CNPJ is a full 14-digit number: base12 followed by the two check digits.
type CNPJ uint64

// NewBase12 combines an 8-digit root and a 4-digit branch.
func NewBase12(root, branch uint64) (Base12, error) {
	if root > RootMax {
		return 0, apperrors.Newf(apperrors.InvalidInput, "root %d is outside [0, %d]", root, uint64(RootMax))
	}
	if branch < BranchMin || branch > BranchMax {
		return 0, apperrors.Newf(apperrors.InvalidInput, "branch %d is outside [%d, %d]", branch, BranchMin, BranchMax)
	}
	return Base12(root*10_000 + branch), nil
}

// Root returns the 8-digit entity portion.
func (b Base12) Root() uint64 {
	return uint64(b) / 10_000
}

// Branch returns the 4-digit unit portion.
func (b Base12) Branch() uint64 {
	return uint64(b) % 10_000
}

// IsDegenerate reports whether all twelve digits of b are identical
// (000000000000, 111111111111, ...). Such bases pass the checksum but are
// rejected by every registry, so the generators skip them by default.
func (b Base12) IsDegenerate() bool {
	return uint64(b)%repunit12 == 0
}

func mod11(sum int) int {
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

// FirstCheckDigit computes the first verification digit of a 12-digit base.
func FirstCheckDigit(b Base12) int {
	sum := 0
	div := uint64(100_000_000_000)
	for i := 0; i < 12; i++ {
		sum += int(uint64(b)/div%10) * firstWeights[i]
		div /= 10
	}
	return mod11(sum)
}

// SecondCheckDigit computes the second verification digit from the 13-digit
// value base12‖firstDigit.
func SecondCheckDigit(base13 uint64) int {
	sum := 0
	div := uint64(1_000_000_000_000)
	for i := 0; i < 13; i++ {
		sum += int(base13/div%10) * secondWeights[i]
		div /= 10
	}
	return mod11(sum)
}

// CheckPair computes both verification digits of a base.
func CheckPair(b Base12) (d1, d2 int) {
	d1 = FirstCheckDigit(b)
	d2 = SecondCheckDigit(uint64(b)*10 + uint64(d1))
	return d1, d2
}

// New assembles the full 14-digit number for a base. The resulting value is
// checksum-correct by construction.
func New(b Base12) CNPJ {
	d1, d2 := CheckPair(b)
	return CNPJ(uint64(b)*100 + uint64(d1)*10 + uint64(d2))
}

// Base12 returns the leading 12 digits.
func (c CNPJ) Base12() Base12 {
	return Base12(uint64(c) / 100)
}

// IsValid recomputes both check digits from the leading 12 digits and
// compares them against the trailing two. It never panics; a mismatch is
// simply reported as false.
func (c CNPJ) IsValid() bool {
	if uint64(c) >= Base12Space*100 {
		return false
	}
	return New(c.Base12()) == c
}

// String renders the raw 14-digit form, zero padded.
func (c CNPJ) String() string {
	return fmt.Sprintf("%014d", uint64(c))
}

// Masked renders the display form DD.DDD.DDD/DDDD-DD.
func (c CNPJ) Masked() string {
	s := c.String()
	return s[0:2] + "." + s[2:5] + "." + s[5:8] + "/" + s[8:12] + "-" + s[12:14]
}

// Normalize strips every non-digit character from s. Masked, partially
// masked and raw inputs all reduce to the same digit string.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Parse accepts a CNPJ in raw or masked form and returns its numeric value.
// The checksum is not verified here; use IsValid for that.
func Parse(s string) (CNPJ, error) {
	digits := Normalize(s)
	if len(digits) != 14 {
		return 0, apperrors.Newf(apperrors.InvalidInput, "expected 14 digits, got %d in %q", len(digits), s)
	}

	var n uint64
	for _, r := range digits {
		n = n*10 + uint64(r-'0')
	}
	return CNPJ(n), nil
}

// ParseBase extracts root and branch from a string containing a CNPJ with
// or without the display mask. At least the 12 base digits must be present;
// check digits, when present, are ignored.
func ParseBase(s string) (root, branch uint64, err error) {
	digits := Normalize(s)
	if len(digits) < 12 {
		return 0, 0, apperrors.Newf(apperrors.InvalidInput, "input %q has %d digits, need at least 12 for root+branch", s, len(digits))
	}

	for _, r := range digits[:8] {
		root = root*10 + uint64(r-'0')
	}
	for _, r := range digits[8:12] {
		branch = branch*10 + uint64(r-'0')
	}
	return root, branch, nil
}
