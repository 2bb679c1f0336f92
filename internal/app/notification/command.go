package notification

import "encoding/json"

// CommandType identifies a page command.
type CommandType string

// Page commands.
const (
	CommandInitialState   CommandType = "initial_state"
	CommandState          CommandType = "state"
	CommandLoadAPI        CommandType = "load_api"
	CommandCreatePlayer   CommandType = "create_player"
	CommandLoadVideo      CommandType = "load_video"
	CommandDestroyPlayer  CommandType = "destroy_player"
	CommandResetContainer CommandType = "reset_container"
	CommandSetFrameSrc    CommandType = "set_frame_src"
	CommandRender         CommandType = "render"
	CommandBuildControl   CommandType = "build_control"
	CommandAlert          CommandType = "alert"
	CommandOpen           CommandType = "open"
)

// Command is an instruction for the page. Only the fields relevant to Type are set.
type Command struct {
	Type       CommandType `json:"type"`
	SequenceNo uint64      `json:"sequence_no"`

	Handle     string          `json:"handle,omitempty"`      // Control object handle
	VideoID    string          `json:"video_id,omitempty"`    // create_player, load_video
	URL        string          `json:"url,omitempty"`         // set_frame_src, open, load_api
	PlayerVars json.RawMessage `json:"player_vars,omitempty"` // create_player
	Target     string          `json:"target,omitempty"`      // render: "list", "meta" or "session"
	HTML       string          `json:"html,omitempty"`        // render
	Enabled    *bool           `json:"enabled,omitempty"`     // build_control
	Message    string          `json:"message,omitempty"`     // alert
	State      *State          `json:"state,omitempty"`       // initial_state, state
}

// State is the navigation state. The initial_state command also carries
// the bindings and the replay that rebuild the page.
type State struct {
	Active       bool      `json:"active"`
	SessionID    string    `json:"session_id,omitempty"`
	Index        int       `json:"index"`
	Len          int       `json:"len"`
	KeysEnabled  bool      `json:"keys_enabled"`
	Bindings     any       `json:"bindings,omitempty"`
	Replay       []Command `json:"replay,omitempty"` // Commands rebuilding the current page
	BuildEnabled bool      `json:"build_enabled"`
}
