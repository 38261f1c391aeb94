package usecase

import "github.com/rocketscienceinc/tictactoe-minimax/internal/entity"

const (
	EventMarkPlaced   = "mark_placed"
	EventGameEnded    = "game_ended"
	EventBoardCleared = "board_cleared"
)

// Event is a single presenter callback, kept so remote clients can replay it.
type Event struct {
	Type   string         `json:"type"`
	Cell   *int           `json:"cell,omitempty"`
	Mark   entity.Mark    `json:"mark,omitempty"`
	Result *entity.Result `json:"result,omitempty"`
	Notice string         `json:"notice,omitempty"`
}

// eventRecorder collects presenter callbacks in the order they happen.
type eventRecorder struct {
	events []Event
}

func (that *eventRecorder) MarkPlaced(cell int, mark entity.Mark) {
	that.events = append(that.events, Event{Type: EventMarkPlaced, Cell: &cell, Mark: mark})
}

func (that *eventRecorder) GameEnded(result entity.Result) {
	that.events = append(that.events, Event{Type: EventGameEnded, Result: &result, Notice: result.String()})
}

func (that *eventRecorder) BoardCleared() {
	that.events = append(that.events, Event{Type: EventBoardCleared})
}

func (that *eventRecorder) recorded() []Event {
	if that.events == nil {
		return []Event{}
	}
	return that.events
}
