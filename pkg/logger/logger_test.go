package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trastienda-api/pkg/logger"
)

func TestNew_ProduccionEmiteJSONConServicio(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Env:     "production",
		Level:   "info",
		Service: "trastienda",
		Writer:  &buf,
	})

	log.Info().Str("doc", "ADJ-20260901-0001").Msg("ajuste aplicado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "trastienda", line["service"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "ADJ-20260901-0001", line["doc"])
	assert.Equal(t, "ajuste aplicado", line["message"])
	assert.Contains(t, line, "time")
}

func TestNew_NivelFiltraEventosMenores(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "warn", Writer: &buf})

	log.Debug().Msg("no debe salir")
	log.Info().Msg("tampoco")
	log.Warn().Msg("sí sale")
	log.Error().Msg("también")

	lines := strings.Count(strings.TrimSpace(buf.String()), "\n") + 1
	assert.Equal(t, 2, lines)
	assert.NotContains(t, buf.String(), "no debe salir")
}

func TestNew_NivelDesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "ruidoso", Writer: &buf})

	log.Debug().Msg("filtrado")
	log.Info().Msg("visible")

	assert.NotContains(t, buf.String(), "filtrado")
	assert.Contains(t, buf.String(), "visible")
}
