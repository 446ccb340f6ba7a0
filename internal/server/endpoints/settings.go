package endpoints

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/internal/config"
	"github.com/jackzampolin/pdfa11y/internal/svcctx"
)

// SettingsResponse lists the effective configuration.
type SettingsResponse struct {
	ConfigFile string           `json:"config_file,omitempty"`
	Settings   []config.Setting `json:"settings"`
}

// ListSettingsEndpoint handles GET /api/settings.
type ListSettingsEndpoint struct{}

var (
	_ api.Endpoint = (*ListSettingsEndpoint)(nil)
	_ api.Grouped  = (*ListSettingsEndpoint)(nil)
)

func (e *ListSettingsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings", e.handler
}

func (e *ListSettingsEndpoint) RequiresInit() bool { return true }

func (e *ListSettingsEndpoint) Group() string { return "settings" }

// handler godoc
//
//	@Summary		List all settings
//	@Description	Effective value and default of every configuration key
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	SettingsResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/settings [get]
func (e *ListSettingsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	cm := svcctx.ConfigFrom(r.Context())
	if cm == nil {
		writeError(w, http.StatusServiceUnavailable, "configuration not available")
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{
		ConfigFile: cm.ConfigFile(),
		Settings:   cm.Settings(),
	})
}

func (e *ListSettingsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SettingsResponse
			if err := client.Get(cmd.Context(), "/api/settings", &resp); err != nil {
				return err
			}
			if prefix != "" {
				filtered := resp.Settings[:0]
				for _, s := range resp.Settings {
					if strings.HasPrefix(s.Key, prefix) {
						filtered = append(filtered, s)
					}
				}
				resp.Settings = filtered
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Filter by key prefix (e.g., 'render.')")
	return cmd
}

// GetSettingEndpoint handles GET /api/settings/{key}.
type GetSettingEndpoint struct{}

var (
	_ api.Endpoint = (*GetSettingEndpoint)(nil)
	_ api.Grouped  = (*GetSettingEndpoint)(nil)
)

func (e *GetSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings/{key}", e.handler
}

func (e *GetSettingEndpoint) RequiresInit() bool { return true }

func (e *GetSettingEndpoint) Group() string { return "settings" }

// handler godoc
//
//	@Summary		Get a setting
//	@Description	Get a single configuration setting by key
//	@Tags			settings
//	@Produce		json
//	@Param			key	path		string	true	"Setting key"
//	@Success		200	{object}	config.Setting
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/settings/{key} [get]
func (e *GetSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(r.PathValue("key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid key encoding")
		return
	}
	cm := svcctx.ConfigFrom(r.Context())
	if cm == nil {
		writeError(w, http.StatusServiceUnavailable, "configuration not available")
		return
	}

	s, err := cm.Setting(key)
	switch {
	case errors.Is(err, config.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, config.ErrNoDefault):
		writeError(w, http.StatusNotFound, "setting not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, s)
	}
}

func (e *GetSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a setting by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp config.Setting
			if err := client.Get(cmd.Context(), "/api/settings/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
