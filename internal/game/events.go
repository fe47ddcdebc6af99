package game

// Event is a per-turn notification for the transport layer to render.
type Event interface {
	isEvent()
}

// CorrectAnswer follows every correct reply.
type CorrectAnswer struct {
	ScoreSoFar int
}

// IncorrectAnswer ends the round.
type IncorrectAnswer struct {
	FinalScore int
}

// RoundWon follows the correct reply to the last question.
type RoundWon struct {
	FinalScore int
}

func (CorrectAnswer) isEvent()   {}
func (IncorrectAnswer) isEvent() {}
func (RoundWon) isEvent()        {}
