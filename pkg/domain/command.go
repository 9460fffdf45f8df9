package domain

// CommandType names a request sent to the coordinator by an external surface.
type CommandType string

const (
	CmdPing          CommandType = "PING"
	CmdStartTour     CommandType = "START_TOUR"
	CmdStopTour      CommandType = "STOP_TOUR"
	CmdNextStep      CommandType = "NEXT_STEP"
	CmdPrevStep      CommandType = "PREV_STEP"
	CmdSkipTour      CommandType = "SKIP_TOUR"
	CmdGetTours      CommandType = "GET_TOURS"
	CmdGetState      CommandType = "GET_STATE"
	CmdGetTheme      CommandType = "GET_THEME"
	CmdSetTheme      CommandType = "SET_THEME"
	CmdFetchTours    CommandType = "FETCH_TOURS"
	CmdResetProgress CommandType = "RESET_PROGRESS"
)

// Command is a request/response message for the coordinator.
type Command struct {
	Type   CommandType    `json:"type"`
	TourID string         `json:"tourId,omitempty"`
	Theme  string         `json:"theme,omitempty"`
	Colors map[string]any `json:"colors,omitempty"`
}

// Response is the reply to a Command.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK builds a successful response.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Fail builds a failed response from an error.
func Fail(err error) Response {
	return Response{Success: false, Error: err.Error()}
}
