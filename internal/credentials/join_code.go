package credentials

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

var adjectives = []string{
	"strong", "swift", "brave", "steady", "mighty", "quick", "bold", "fierce",
	"nimble", "tough", "agile", "iron", "rapid", "solid", "lean", "power",
	"gritty", "daring", "eager", "fearless", "hardy", "keen", "lively", "noble",
}

var nouns = []string{
	"kettlebell", "barbell", "rower", "burpee", "deadlift", "squat", "snatch", "thruster",
	"pullup", "pushup", "lunge", "plank", "sprint", "box", "rope", "sled",
	"wallball", "clean", "jerk", "press", "ring", "bike", "carry", "swing",
}

var joinCodePattern = regexp.MustCompile(`^[a-z]+-[a-z]+-[0-9]{4}$`)

// GenerateJoinCode returns a code like "swift-kettlebell-0421" for inviting people to a family
func GenerateJoinCode() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}

	noun, err := randomElement(nouns)
	if err != nil {
		return "", err
	}

	num, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%04d", adjective, noun, num.Int64()), nil
}

// IsJoinCode reports whether s has the shape of a generated join code
func IsJoinCode(s string) bool {
	return joinCodePattern.MatchString(s)
}

func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
