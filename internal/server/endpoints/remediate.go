package endpoints

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/internal/audit"
	"github.com/jackzampolin/pdfa11y/internal/svcctx"
)

// maxRemediateBody bounds remediation request bodies.
const maxRemediateBody = 64 << 10

//go:embed schemas/*.json
var schemaFS embed.FS

// RemediateRequest is the request body for a remediation.
type RemediateRequest struct {
	Action string `json:"action"`
	Value  string `json:"value"`
}

var remediateSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile("schemas/remediate.json")
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("remediate.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load remediate schema: %w", err)
	}
	return compiler.Compile("remediate.json")
})

// decodeRemediateRequest checks body against the request schema and
// decodes it.
func decodeRemediateRequest(body []byte) (RemediateRequest, error) {
	var req RemediateRequest
	schema, err := remediateSchema()
	if err != nil {
		return req, err
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return req, &a11y.ValidationError{Field: "body", Reason: "invalid JSON: " + err.Error()}
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return req, &a11y.ValidationError{Field: "body", Reason: leafMessage(verr)}
		}
		return req, &a11y.ValidationError{Field: "body", Reason: err.Error()}
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, &a11y.ValidationError{Field: "body", Reason: err.Error()}
	}
	return req, nil
}

// leafMessage returns the most specific cause of a schema failure.
func leafMessage(verr *jsonschema.ValidationError) string {
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	if verr.InstanceLocation == "" {
		return verr.Message
	}
	return verr.InstanceLocation + ": " + verr.Message
}

// RemediateEndpoint handles POST /api/sessions/{id}/remediate.
type RemediateEndpoint struct{}

var _ api.Endpoint = (*RemediateEndpoint)(nil)

func (e *RemediateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/remediate", e.handler
}

func (e *RemediateEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Apply a remediation
//	@Description	Apply fix_title or fix_language and re-run the analysis. Any failure
//	@Description	on a live session, including a malformed body, returns the unchanged
//	@Description	issues and score.
//	@Tags			audit
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Session ID"
//	@Param			request	body		RemediateRequest	true	"Remediation"
//	@Success		200		{object}	audit.RemediationResult
//	@Failure		400		{object}	audit.RemediationResult
//	@Failure		404		{object}	ErrorResponse
//	@Failure		413		{object}	audit.RemediationResult
//	@Router			/api/sessions/{id}/remediate [post]
func (e *RemediateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svc := svcctx.AuditFrom(r.Context())
	id := r.PathValue("id")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRemediateBody))
	if err != nil {
		result, err := svc.Reject(id, &a11y.ValidationError{Field: "body", Reason: fmt.Sprintf("request body exceeds %d bytes", maxRemediateBody)})
		writeRemediation(w, http.StatusRequestEntityTooLarge, result, err)
		return
	}
	req, err := decodeRemediateRequest(body)
	if err != nil {
		result, err := svc.Reject(id, err)
		writeRemediation(w, 0, result, err)
		return
	}

	result, err := svc.Remediate(r.Context(), id, req.Action, req.Value)
	writeRemediation(w, 0, result, err)
}

// writeRemediation writes a remediation outcome. Failures on a live
// session carry its unchanged issues and score; status overrides the
// status derived from err when non-zero.
func writeRemediation(w http.ResponseWriter, status int, result *audit.RemediationResult, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, result)
		return
	}
	if result == nil {
		writeServiceError(w, err)
		return
	}
	if status == 0 {
		status = statusFor(err)
	}
	writeJSON(w, status, result)
}

func (e *RemediateEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "remediate <session-id> <fix_title|fix_language> <value>",
		Short: "Apply an automatic remediation to a session",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp audit.RemediationResult
			req := RemediateRequest{Action: args[1], Value: args[2]}
			if err := client.Post(cmd.Context(), "/api/sessions/"+args[0]+"/remediate", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
