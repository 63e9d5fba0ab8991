/*
Package server implements msgpack IPC over stdin/stdout for book statistics.

A client starts wordstat in serve mode and writes msgpack encoded requests to its
stdin. Every request produces exactly one response on stdout, in order. The
server first writes a response with status "ready".

# IPC

Requests share one shape. The action field selects the operation and the other
fields are read when the action needs them:

	{"id": "req_001", "action": "add", "path": "books/ethique.txt"}
	{"id": "req_002", "action": "reference", "position": 1}
	{"id": "req_003", "action": "top", "l": 5}
	{"id": "req_004", "action": "prefix", "p": "ch", "l": 10}

Responses echo the id and carry a status, the payload of the action and the
time spent handling it, in microseconds:

	{"id": "req_003", "status": "ok", "w": [{"w": "de", "n": 2, "r": 1}], "c": 1, "t": 85}

A request that fails gets status "error" with a message and a code. Codes follow
HTTP conventions: 400 for a bad request, 404 for an unknown book, 409 when a
reference book is required and 500 when a book cannot be read.

# Actions

	health     collection size
	add        add the book at path
	remove     remove the book at path
	list       every book with its position, state and reference marker
	reference  choose the reference book by 1-based position
	count      distinct words of a book
	top        most frequent words of a book
	unique     reference words found in no other book
	overlap    share of the reference vocabulary found in each other book
	prefix     ranked words of a book starting with p

count, top and prefix act on the book at path, or at position, or on the
reference book when neither is given. Word list sizes are capped by
server.max_limit from the config.
*/
package server

// Request is a single client message.
type Request struct {
	ID       string `msgpack:"id"`
	Action   string `msgpack:"action"`
	Path     string `msgpack:"path,omitempty"`
	Position int    `msgpack:"position,omitempty"`
	Prefix   string `msgpack:"p,omitempty"`
	Limit    int    `msgpack:"l,omitempty"`
}

// WordEntry is one ranked word.
type WordEntry struct {
	Word  string `msgpack:"w"`
	Count int    `msgpack:"n"`
	Rank  int    `msgpack:"r"`
}

// BookEntry describes a book of the collection.
type BookEntry struct {
	Position  int    `msgpack:"position"`
	Path      string `msgpack:"path"`
	State     string `msgpack:"state"`
	Reference bool   `msgpack:"reference,omitempty"`
}

// OverlapEntry is the share of the reference vocabulary found in one book.
type OverlapEntry struct {
	Path     string  `msgpack:"path"`
	Matching int     `msgpack:"matching"`
	Total    int     `msgpack:"total"`
	Ratio    float64 `msgpack:"ratio"`
	Percent  string  `msgpack:"percent"`
}

// Response answers a Request. Only the payload of the requested action is set.
type Response struct {
	ID        string         `msgpack:"id"`
	Status    string         `msgpack:"status"`
	Error     string         `msgpack:"error,omitempty"`
	Code      int            `msgpack:"code,omitempty"`
	Count     int            `msgpack:"c"`
	Total     int            `msgpack:"total,omitempty"`
	Words     []WordEntry    `msgpack:"w,omitempty"`
	Books     []BookEntry    `msgpack:"b,omitempty"`
	Overlaps  []OverlapEntry `msgpack:"o,omitempty"`
	TimeTaken int64          `msgpack:"t"`
}

const (
	StatusReady = "ready"
	StatusOK    = "ok"
	StatusError = "error"
)

const (
	ActionHealth    = "health"
	ActionAdd       = "add"
	ActionRemove    = "remove"
	ActionList      = "list"
	ActionReference = "reference"
	ActionCount     = "count"
	ActionTop       = "top"
	ActionUnique    = "unique"
	ActionOverlap   = "overlap"
	ActionPrefix    = "prefix"
)
