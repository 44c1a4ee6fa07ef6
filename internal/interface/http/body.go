package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	msgSuccess           = "Success"
	msgFailure           = "Failure"
	msgUserNotFound      = "User not found !"
	msgTimelinesNotFound = "Timelines not found !"
	msgHello             = "Hello from My Maps API!"
)

var errInvalidID = errors.New("id must be a positive integer")

// knownFields are taken out of a body before the rest is kept as profile data.
var knownFields = map[string]bool{
	"id": true, "userId": true, "username": true, "email": true, "password": true, "avatar": true,
}

// decodeBody reads a JSON object keeping numbers as json.Number so large
// store ids survive untouched.
func decodeBody(c *gin.Context) (map[string]any, error) {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

// bodyStatus maps a decode failure onto the response status.
func bodyStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// parseID accepts an id sent either as a JSON number or as a decimal string.
func parseID(v any) (int64, error) {
	var (
		id  int64
		err error
	)
	switch x := v.(type) {
	case json.Number:
		id, err = x.Int64()
	case string:
		id, err = strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	case float64:
		id = int64(x)
		if float64(id) != x {
			err = errInvalidID
		}
	case int64:
		id = x
	default:
		err = errInvalidID
	}
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// stringField returns body[name]; absent and null both read as "".
func stringField(body map[string]any, name string) (string, error) {
	switch v := body[name].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("field %s must be a string", name)
	}
}

func requiredString(body map[string]any, name string) (string, error) {
	if _, ok := body[name]; !ok {
		return "", fmt.Errorf("field %s is required", name)
	}
	return stringField(body, name)
}

func profileFields(body map[string]any) map[string]any {
	var out map[string]any
	for k, v := range body {
		if knownFields[k] {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	return out
}
