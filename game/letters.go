package game

import "fmt"

// Letter is the BINGO column a number belongs to.
type Letter string

const (
	LetterB Letter = "B"
	LetterI Letter = "I"
	LetterN Letter = "N"
	LetterG Letter = "G"
	LetterO Letter = "O"
)

const (
	MinNumber   = 1
	MaxNumber   = 75
	ColumnWidth = 15
)

var columns = [...]Letter{LetterB, LetterI, LetterN, LetterG, LetterO}

// LetterFor returns the column letter for n, or "" when n is outside 1..75.
func LetterFor(n int) Letter {
	if n < MinNumber || n > MaxNumber {
		return ""
	}
	return columns[(n-1)/ColumnWidth]
}

// ValidNumber reports whether n is part of the pool.
func ValidNumber(n int) bool {
	return n >= MinNumber && n <= MaxNumber
}

// Ball is a called number tagged with its column.
type Ball struct {
	Number int    `json:"number"`
	Letter Letter `json:"letter"`
}

func NewBall(n int) Ball {
	return Ball{Number: n, Letter: LetterFor(n)}
}

// String renders the ball the way a caller announces it, e.g. "B-7".
func (b Ball) String() string {
	return fmt.Sprintf("%s-%d", b.Letter, b.Number)
}
