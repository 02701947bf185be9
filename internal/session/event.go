package session

// Event is an input accepted by Reduce.
type Event interface {
	isEvent()
}

// Character is a typed key. Only payloads of exactly one character are interpreted.
type Character struct {
	Key string
}

// SelectPronunciation switches the pronunciation variant by selector code.
type SelectPronunciation struct {
	Code uint8
}

// SelectLevel switches to another vocabulary level.
type SelectLevel struct {
	Level string
}

// SelectChapter jumps to the first word of a 1-based chapter.
type SelectChapter struct {
	Chapter int
}

// Direction literals accepted by NextOrPrev.
const (
	DirectionNext = "next"
	DirectionPrev = "prev"
)

// NextOrPrev moves to the adjacent word.
type NextOrPrev struct {
	Direction string
}

// Submit toggles between Stopped and Running.
type Submit struct{}

func (Character) isEvent()           {}
func (SelectPronunciation) isEvent() {}
func (SelectLevel) isEvent()         {}
func (SelectChapter) isEvent()       {}
func (NextOrPrev) isEvent()          {}
func (Submit) isEvent()              {}
