package protocol

import "encoding/json"

// Commands accepted from clients.
const (
	CmdCreateRoom = "create_room"
	CmdJoinRoom   = "join_room"
	CmdPosition   = "position"
	CmdChat       = "chat"
)

// Commands sent to clients.
const (
	CmdJoinedServer        = "joined_server"        // identity assignment after connect
	CmdSpawnLocalPlayer    = "spawn_local_player"   // spawn the client's own player
	CmdSpawnNewPlayer      = "spawn_new_player"     // a peer appeared
	CmdSpawnNetworkPlayers = "spawn_network_players" // snapshot of existing players
	CmdRoomCreated         = "room_created"
	CmdRoomJoined          = "room_joined"
	CmdServerError         = "server_error"
	CmdError               = "error"
	CmdUpdatePosition      = "update_position"
	CmdNewChatMessage      = "new_chat_message"
	CmdPlayerDisconnected  = "player_disconnected"
	CmdStartGame           = "start_game"
)

// Envelope is the single message unit on the wire, one JSON text frame each.
type Envelope struct {
	Cmd     string      `json:"cmd"`
	Content interface{} `json:"content"`
}

type PlayerInfo struct {
	UUID string  `json:"uuid"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type WelcomeContent struct {
	Msg  string `json:"msg"`
	UUID string `json:"uuid"`
}

type SpawnContent struct {
	Player PlayerInfo `json:"player"`
}

type NetworkPlayersContent struct {
	Players []PlayerInfo `json:"players"`
}

type RoomContent struct {
	Code string `json:"code"`
}

type ErrorContent struct {
	Msg string `json:"msg"`
}

type PlayerRefContent struct {
	UUID string `json:"uuid"`
}

type PositionContent struct {
	UUID string  `json:"uuid,omitempty"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type ChatContent struct {
	Msg string `json:"msg"`
}

// Decode re-marshals a generic envelope content into dst.
func Decode(content interface{}, dst interface{}) error {
	b, err := json.Marshal(content)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}
