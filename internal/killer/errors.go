package killer

// Closed set of named conditions raised by the session and translated into
// user-facing text by the command layer. Anything else is a defect.
var (
	ErrAlreadyStarted   = errf("game already started")
	ErrNotStarted       = errf("game not started yet")
	ErrAlreadyJoined    = errf("player already joined")
	ErrNotInGame        = errf("player not in the game")
	ErrAuthorLeave      = errf("the author cannot leave their own game")
	ErrRosterFull       = errf("game roster is full")
	ErrNotEnoughPlayers = errf("not enough players to start")
	ErrNotAuthor        = errf("only the author may do that")
	ErrFinished         = errf("game already finished")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }
