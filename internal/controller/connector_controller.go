package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sony/gobreaker/v2"
)

// ConnectorRegistry is the read side of the connector factory.
type ConnectorRegistry interface {
	Names() []string
	Capabilities(name string) ([]string, error)
	BreakerState(name string) gobreaker.State
}

type ConnectorStatus struct {
	Name    string   `json:"name"`
	Circuit string   `json:"circuit"`
	Flows   []string `json:"flows"`
}

type ConnectorController struct {
	registry ConnectorRegistry
}

func NewConnectorController(registry ConnectorRegistry) *ConnectorController {
	return &ConnectorController{registry: registry}
}

func (c *ConnectorController) List(w http.ResponseWriter, _ *http.Request) {
	names := c.registry.Names()
	out := make([]ConnectorStatus, 0, len(names))
	for _, name := range names {
		status, err := c.status(name)
		if err != nil {
			writeError(w, err)
			return
		}
		out = append(out, status)
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *ConnectorController) Get(w http.ResponseWriter, r *http.Request) {
	status, err := c.status(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (c *ConnectorController) status(name string) (ConnectorStatus, error) {
	flows, err := c.registry.Capabilities(name)
	if err != nil {
		return ConnectorStatus{}, err
	}
	return ConnectorStatus{
		Name:    name,
		Circuit: c.registry.BreakerState(name).String(),
		Flows:   flows,
	}, nil
}
