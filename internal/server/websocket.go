package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/session"
	"github.com/bjaus/gridconv/internal/templates"
)

// wsRequest is one editing command sent by a live client.
type wsRequest struct {
	Action   string          `json:"action"`
	Text     string          `json:"text,omitempty"`
	Format   gridconv.Format `json:"format,omitempty"`
	Output   gridconv.Format `json:"output,omitempty"`
	Template string          `json:"template,omitempty"`
	Index    int             `json:"index,omitempty"`
	Row      int             `json:"row,omitempty"`
	Col      int             `json:"col,omitempty"`
	Value    string          `json:"value,omitempty"`
	Query    string          `json:"query,omitempty"`
}

type wsSort struct {
	Column    int    `json:"column"`
	Direction string `json:"direction"`
}

// wsState is sent after every command.
type wsState struct {
	Data    gridconv.Grid   `json:"data"`
	View    gridconv.Grid   `json:"view,omitempty"`
	Text    string          `json:"text"`
	Format  gridconv.Format `json:"format"`
	Output  string          `json:"output"`
	Sort    wsSort          `json:"sort"`
	Stats   gridconv.Stats  `json:"stats"`
	CanUndo bool            `json:"canUndo"`
	CanRedo bool            `json:"canRedo"`
	Error   string          `json:"error,omitempty"`
}

var errUnknownAction = errors.New("unknown action")

// handleWebSocket runs one editing session per connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sess := session.New(gridconv.CSV, s.opts.HistoryLimit)
	output := gridconv.JSON
	filter := ""
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket closed", "error", err)
			}
			return
		}
		var req wsRequest
		if err := json.Unmarshal(message, &req); err != nil {
			err = fmt.Errorf("%w: %v", errBadRequest, err)
			if werr := conn.WriteJSON(s.state(sess, output, filter, err)); werr != nil {
				return
			}
			continue
		}
		if req.Output != "" {
			if f, err := gridconv.ParseFormat(string(req.Output)); err == nil {
				output = f
			}
		}
		if req.Action == "filter" {
			filter = req.Query
		}
		err = s.apply(sess, req)
		if errors.Is(err, gridconv.ErrCannotDelete) || errors.Is(err, gridconv.ErrOutOfRange) {
			s.log.EditRejected(req.Action, req.Index, err)
		}
		if err := conn.WriteJSON(s.state(sess, output, filter, err)); err != nil {
			return
		}
	}
}

func (s *Server) apply(sess *session.Session, req wsRequest) error {
	switch req.Action {
	case "load":
		f, err := formatOrDefault(req.Format, sess.Format())
		if err != nil {
			return err
		}
		return sess.Load(req.Text, f)
	case "template":
		t, ok := templates.Get(req.Template)
		if !ok {
			return fmt.Errorf("%w: template %q", errBadRequest, req.Template)
		}
		sess.LoadGrid(t.Data)
		return nil
	case "format":
		f, err := gridconv.ParseFormat(string(req.Format))
		if err != nil {
			return err
		}
		sess.SetFormat(f)
		return nil
	case "insertRow":
		sess.InsertRow(req.Index)
		return nil
	case "insertColumn":
		sess.InsertColumn(req.Index)
		return nil
	case "deleteRow":
		return sess.DeleteRow(req.Index)
	case "deleteColumn":
		return sess.DeleteColumn(req.Index)
	case "setCell":
		return sess.SetCell(req.Row, req.Col, req.Value)
	case "sort":
		_, err := sess.SortBy(req.Col)
		return err
	case "undo":
		return sess.Undo()
	case "redo":
		return sess.Redo()
	case "clear":
		sess.Clear()
		return nil
	case "state", "filter", "":
		return nil
	default:
		return fmt.Errorf("%w %q", errUnknownAction, req.Action)
	}
}

func (s *Server) state(sess *session.Session, output gridconv.Format, filter string, err error) wsState {
	g := sess.Grid()
	if g == nil {
		g = gridconv.Grid{}
	}
	sort := sess.Sort()
	st := wsState{
		Data:    g,
		Text:    sess.Text(),
		Format:  sess.Format(),
		Output:  sess.Output(output),
		Sort:    wsSort{Column: sort.Column, Direction: sort.Direction.String()},
		Stats:   sess.Stats(),
		CanUndo: sess.History().CanUndo(),
		CanRedo: sess.History().CanRedo(),
	}
	if filter != "" {
		st.View = sess.Filter(filter)
	}
	if err != nil {
		st.Error = err.Error()
	}
	return st
}
