package follower

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// Message is one dispatched text/event-stream block. Comment-only blocks
// have no Data.
type Message struct {
	Event   string
	Data    []byte
	Comment string
}

func (m Message) IsComment() bool {
	return m.Data == nil
}

// Decoder reads messages from a text/event-stream body as they arrive.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next blocks until a full message is read. It returns io.EOF once the stream
// ends cleanly between messages.
func (d *Decoder) Next() (Message, error) {
	var (
		msg     Message
		data    [][]byte
		started bool
	)
	for {
		line, err := d.r.ReadString('\n')
		if err != nil {
			if err == io.EOF && started && line == "" {
				return d.finish(msg, data), nil
			}
			if err == io.EOF && line != "" {
				err = io.ErrUnexpectedEOF
			}
			return Message{}, err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if !started {
				continue
			}
			return d.finish(msg, data), nil
		}
		started = true

		if strings.HasPrefix(line, ":") {
			if msg.Comment != "" {
				msg.Comment += "\n"
			}
			msg.Comment += strings.TrimPrefix(strings.TrimPrefix(line, ":"), " ")
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			msg.Event = value
		case "data":
			data = append(data, []byte(value))
		}
	}
}

func (d *Decoder) finish(msg Message, data [][]byte) Message {
	if data != nil {
		msg.Data = bytes.Join(data, []byte("\n"))
		if msg.Event == "" {
			msg.Event = "message"
		}
	}
	return msg
}
