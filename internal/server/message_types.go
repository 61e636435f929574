package server

// MessageType names a websocket message
type MessageType string

// Client → Server
const (
	MessageTypeCreateRoom   MessageType = "create_room"
	MessageTypeJoinRoom     MessageType = "join_room"
	MessageTypeLeaveRoom    MessageType = "leave_room"
	MessageTypeStartGame    MessageType = "start_game"
	MessageTypePlayerAction MessageType = "player_action"
	MessageTypeGetMyCards   MessageType = "get_my_cards"
	MessageTypeAddBot       MessageType = "add_bot"
	MessageTypeListRooms    MessageType = "list_rooms"
)

// Server → Client
const (
	MessageTypeRoomJoined    MessageType = "room_joined"
	MessageTypeRoomLeft      MessageType = "room_left"
	MessageTypeRoomUpdate    MessageType = "room_update"
	MessageTypeRoomClosed    MessageType = "room_closed"
	MessageTypeRoomList      MessageType = "room_list"
	MessageTypeGameStarted   MessageType = "game_started"
	MessageTypeGameUpdate    MessageType = "game_update"
	MessageTypeMyCards       MessageType = "my_cards"
	MessageTypeYourTurn      MessageType = "your_turn"
	MessageTypeHandFinished  MessageType = "hand_finished"
	MessageTypePlayerTimeout MessageType = "player_timeout"
	MessageTypeError         MessageType = "error_msg"
)

func (mt MessageType) String() string {
	return string(mt)
}
