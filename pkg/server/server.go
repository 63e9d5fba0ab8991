package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/wordstat/internal/logger"
	"github.com/bastiangx/wordstat/internal/utils"
	"github.com/bastiangx/wordstat/pkg/bookshelf"
	"github.com/bastiangx/wordstat/pkg/config"
	"github.com/bastiangx/wordstat/pkg/frequency"
	"github.com/bastiangx/wordstat/pkg/words"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// requestError is a failed request, reported to the client with its code.
type requestError struct {
	code int
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{code: 400, msg: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &requestError{code: 404, msg: fmt.Sprintf(format, args...)}
}

// Server handles IPC requests against a book collection.
type Server struct {
	shelf        *bookshelf.Collection
	config       *config.Config
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	log          *log.Logger
	bookLog      *log.Logger
	requestCount int
}

// NewServer creates a server that reads requests from in and writes responses to out.
func NewServer(shelf *bookshelf.Collection, cfg *config.Config, in io.Reader, out io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		shelf:   shelf,
		config:  cfg,
		decoder: msgpack.NewDecoder(in),
		encoder: msgpack.NewEncoder(out),
		log:     logger.New("ipc"),
		bookLog: logger.New("book"),
	}
}

// SetLogger replaces the loggers used by the server and the books it adds.
func (s *Server) SetLogger(l *log.Logger) {
	if l != nil {
		s.log = l
		s.bookLog = l
	}
}

// Start writes the ready signal and serves requests until in is exhausted or
// ctx is done. A clean end of input returns nil.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting Server.")
	if err := s.send(Response{Status: StatusReady, Count: s.shelf.Len()}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			s.log.Errorf("Reading request stream: %v", err)
			return fmt.Errorf("read request: %w", err)
		}
		if err := s.send(s.handleMessage(raw)); err != nil {
			return err
		}
	}
}

// handleMessage decodes one request and runs it.
func (s *Server) handleMessage(raw msgpack.RawMessage) Response {
	s.requestCount++
	var request Request
	if err := msgpack.Unmarshal(raw, &request); err != nil {
		s.log.Errorf("Unmarshaling request: %v", err)
		return errorResponse("", badRequest("invalid msgpack request"))
	}
	return s.Handle(request)
}

// Handle runs a single request and builds its response.
func (s *Server) Handle(request Request) Response {
	start := time.Now()
	response, err := s.dispatch(request)
	if err != nil {
		s.log.Debug("Request failed", "id", request.ID, "action", request.Action, "err", err)
		response = errorResponse(request.ID, err)
	} else {
		response.ID = request.ID
		response.Status = StatusOK
	}
	response.TimeTaken = time.Since(start).Microseconds()
	return response
}

func (s *Server) dispatch(request Request) (Response, error) {
	switch request.Action {
	case ActionHealth:
		return Response{Count: s.shelf.Len()}, nil
	case ActionAdd:
		return s.handleAdd(request)
	case ActionRemove:
		return s.handleRemove(request)
	case ActionList:
		return s.handleList(), nil
	case ActionReference:
		return s.handleReference(request)
	case ActionCount:
		return s.handleCount(request)
	case ActionTop:
		return s.handleTop(request)
	case ActionUnique:
		return s.handleUnique(request)
	case ActionOverlap:
		return s.handleOverlap()
	case ActionPrefix:
		return s.handlePrefix(request)
	case "":
		return Response{}, badRequest("missing 'action' field")
	default:
		return Response{}, badRequest("unknown action: %s", request.Action)
	}
}

func (s *Server) handleAdd(request Request) (Response, error) {
	if request.Path == "" {
		return Response{}, badRequest("missing 'path' parameter")
	}
	if err := frequency.CheckSource(request.Path, s.config.Books.Extensions); err != nil {
		return Response{}, badRequest("cannot use %s: %v", request.Path, err)
	}
	if !s.shelf.Add(frequency.NewIndex(request.Path, frequency.WithLogger(s.bookLog))) {
		return Response{}, badRequest("%s is already in the list", request.Path)
	}
	return s.handleList(), nil
}

func (s *Server) handleRemove(request Request) (Response, error) {
	if request.Path == "" {
		return Response{}, badRequest("missing 'path' parameter")
	}
	book, ok := s.shelf.Find(request.Path)
	if !ok {
		return Response{}, notFound("%s is not in the list", request.Path)
	}
	s.shelf.Remove(book)
	return s.handleList(), nil
}

func (s *Server) handleList() Response {
	entries := s.shelf.List()
	books := make([]BookEntry, len(entries))
	for i, e := range entries {
		books[i] = BookEntry{
			Position:  e.Position,
			Path:      e.Book.Source(),
			State:     e.Book.State().String(),
			Reference: e.Reference,
		}
	}
	return Response{Books: books, Count: len(books)}
}

func (s *Server) handleReference(request Request) (Response, error) {
	if !s.shelf.SetReference(request.Position) {
		return Response{}, badRequest("position %d is out of range 1..%d, reference cleared", request.Position, s.shelf.Len())
	}
	return s.handleList(), nil
}

// target resolves the book a request acts on: path, then position, then the reference.
func (s *Server) target(request Request) (*frequency.Index, error) {
	switch {
	case request.Path != "":
		book, ok := s.shelf.Find(request.Path)
		if !ok {
			return nil, notFound("%s is not in the list", request.Path)
		}
		return book, nil
	case request.Position != 0:
		books := s.shelf.Books()
		if request.Position < 1 || request.Position > len(books) {
			return nil, badRequest("position %d is out of range 1..%d", request.Position, len(books))
		}
		return books[request.Position-1], nil
	default:
		book, ok := s.shelf.Reference()
		if !ok {
			return nil, bookshelf.ErrNoReference
		}
		return book, nil
	}
}

// loaded resolves the target book and makes sure it could be read.
func (s *Server) loaded(request Request) (*frequency.Index, error) {
	book, err := s.target(request)
	if err != nil {
		return nil, err
	}
	if err := book.Load(); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *Server) handleCount(request Request) (Response, error) {
	book, err := s.loaded(request)
	if err != nil {
		return Response{}, err
	}
	return Response{Count: book.WordCount(), Total: book.TotalOccurrences()}, nil
}

// handleTop returns the first l ranked words. An l beyond the size of the book
// is a range error. Without a limit the configured top_words is used,
// shortened to the size of the book. max_limit applies last.
func (s *Server) handleTop(request Request) (Response, error) {
	book, err := s.loaded(request)
	if err != nil {
		return Response{}, err
	}
	n := request.Limit
	if n == 0 {
		n = min(s.config.Stats.TopWords, book.WordCount())
	}

	top, err := book.TopWords(n)
	if err != nil {
		return Response{}, badRequest("%v", err)
	}
	top = top[:min(len(top), s.config.Server.MaxLimit)]
	return Response{Words: toEntries(top), Count: len(top), Total: book.WordCount()}, nil
}

func (s *Server) handleUnique(request Request) (Response, error) {
	unique, err := s.shelf.UniqueToReference()
	if err != nil {
		return Response{}, err
	}
	total := len(unique)
	unique = unique[:s.capLimit(request.Limit, total)]
	return Response{Words: toEntries(unique), Count: len(unique), Total: total}, nil
}

func (s *Server) handleOverlap() (Response, error) {
	overlaps, err := s.shelf.Overlaps()
	if err != nil {
		return Response{}, err
	}
	entries := make([]OverlapEntry, len(overlaps))
	for i, o := range overlaps {
		entries[i] = OverlapEntry{
			Path:     o.Book.Source(),
			Matching: o.Matching,
			Total:    o.Total,
			Ratio:    o.Ratio,
			Percent:  o.Percent,
		}
	}
	return Response{Overlaps: entries, Count: len(entries)}, nil
}

func (s *Server) handlePrefix(request Request) (Response, error) {
	if request.Prefix == "" {
		return Response{}, badRequest("missing 'p' parameter")
	}
	book, err := s.loaded(request)
	if err != nil {
		return Response{}, err
	}
	limit := request.Limit
	if limit <= 0 {
		limit = s.config.Stats.TopWords
	}
	matches := book.WithPrefix(request.Prefix, min(limit, s.config.Server.MaxLimit))
	return Response{Words: toEntries(matches), Count: len(matches)}, nil
}

// capLimit bounds a requested list size by the available items and max_limit.
// A limit of zero or less asks for everything allowed.
func (s *Server) capLimit(limit, available int) int {
	if limit <= 0 || limit > available {
		limit = available
	}
	return min(limit, s.config.Server.MaxLimit)
}

func toEntries(ws []words.Word) []WordEntry {
	ranks := utils.CreateRankList(len(ws))
	entries := make([]WordEntry, len(ws))
	for i, w := range ws {
		entries[i] = WordEntry{Word: w.Text, Count: w.Count, Rank: ranks[i]}
	}
	return entries
}

func errorResponse(id string, err error) Response {
	code := 500
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		code = reqErr.code
	case errors.Is(err, bookshelf.ErrNoReference):
		code = 409
	}
	return Response{ID: id, Status: StatusError, Error: err.Error(), Code: code}
}

// send encodes response to the client.
func (s *Server) send(response Response) error {
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
