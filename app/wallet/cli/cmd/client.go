package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
)

// client is used for every call to the node. Mining can take a while.
var client = http.Client{
	Timeout: 2 * time.Minute,
}

// nodeError is returned when the node responds with an error.
type nodeError struct {
	Status int
	Resp   errs.Response
}

func (ne *nodeError) Error() string {
	msg := fmt.Sprintf("node responded %d: %s", ne.Status, ne.Resp.Error)
	if ne.Resp.Block != nil {
		msg += ": block " + strconv.FormatUint(*ne.Resp.Block, 10)
	}
	for field, err := range ne.Resp.Fields {
		msg += fmt.Sprintf(": %s %s", field, err)
	}
	return msg
}

// call performs the request against the node and decodes the response into
// out when it's provided.
func call(method string, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		ne := nodeError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(&ne.Resp); err != nil {
			ne.Resp.Error = http.StatusText(resp.StatusCode)
		}
		return &ne
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// isStatus checks if the error is a node error with the specified status.
func isStatus(err error, status int) bool {
	var ne *nodeError
	return errors.As(err, &ne) && ne.Status == status
}

// participantPath escapes a participant name for use in a route.
func participantPath(prefix string, participant string) string {
	if participant == "" {
		return prefix
	}
	return prefix + "/" + neturl.PathEscape(participant)
}
