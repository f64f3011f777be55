package handler

import (
	"encoding/json"

	"healthlog-webhook/internal/extract"
)

// Defaults echoed back when the event does not name its action group or
// function.
const (
	defaultActionGroup = "action_group_healthlog_updater"
	defaultFunction    = "upsert_log"
)

// Envelope is the Bedrock action-group function response shape. The inner
// body is a JSON string, not a nested object.
type Envelope struct {
	MessageVersion string   `json:"messageVersion"`
	Response       Response `json:"response"`
}

type Response struct {
	ActionGroup      string           `json:"actionGroup"`
	Function         string           `json:"function"`
	FunctionResponse FunctionResponse `json:"functionResponse"`
}

type FunctionResponse struct {
	ResponseBody ResponseBody `json:"responseBody"`
}

type ResponseBody struct {
	Text TextBody `json:"TEXT"`
}

type TextBody struct {
	Body string `json:"body"`
}

// OKEnvelope wraps body in the reply shape, echoing the caller's actionGroup
// and function identifiers. It never fails; this is the last line of defense
// on the failure path.
func OKEnvelope(event json.RawMessage, body any) Envelope {
	encoded, err := json.Marshal(body)
	if err != nil {
		encoded = []byte(`{"error":"bad_request","message":"response body could not be encoded"}`)
	}

	actionGroup := extract.TopString(event, "actionGroup")
	if actionGroup == "" {
		actionGroup = defaultActionGroup
	}
	function := extract.TopString(event, "function")
	if function == "" {
		function = defaultFunction
	}

	return Envelope{
		MessageVersion: "1.0",
		Response: Response{
			ActionGroup: actionGroup,
			Function:    function,
			FunctionResponse: FunctionResponse{
				ResponseBody: ResponseBody{
					Text: TextBody{Body: string(encoded)},
				},
			},
		},
	}
}

// ErrorEnvelope wraps an error code and message in the reply shape.
func ErrorEnvelope(event json.RawMessage, code, message string) Envelope {
	return OKEnvelope(event, map[string]string{
		"error":   code,
		"message": message,
	})
}
