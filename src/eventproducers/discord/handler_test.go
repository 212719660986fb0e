package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akormos/alert-trading/src/eventmodels"
)

func TestExtractAlerts(t *testing.T) {
	t.Run("content, embeds and fields all yield alerts", func(t *testing.T) {
		message := &MessageEventDTO{
			Author:  "trader-joe",
			Content: "BTO META 705C 6/6 @ 1.87",
			Embeds: []EmbedDTO{
				{
					Description: "META trimming here",
					Fields: []EmbedFieldDTO{
						{Name: "Alert", Value: "QQQ 520P 6/20 grab"},
					},
				},
			},
		}

		alerts := ExtractAlerts(message)
		require.Len(t, alerts, 3)

		assert.Equal(t, "BTO META 705C 6/6 @ 1.87", alerts[0].text)
		assert.Equal(t, "message", alerts[0].source)

		assert.Equal(t, "META trimming here", alerts[1].text)
		assert.Equal(t, "embed", alerts[1].source)

		assert.Equal(t, "Alert\nQQQ 520P 6/20 grab", alerts[2].text)
		assert.Equal(t, "embed-field", alerts[2].source)
	})

	t.Run("blank pieces are skipped", func(t *testing.T) {
		message := &MessageEventDTO{
			Content: "   ",
			Embeds: []EmbedDTO{
				{Description: "", Fields: []EmbedFieldDTO{{Name: "", Value: " "}}},
			},
		}

		assert.Len(t, ExtractAlerts(message), 0)
	})
}

func TestSenderAllowList(t *testing.T) {
	config := eventmodels.NewDefaultPipelineYAML()
	config.AllowedSenders = []string{"Trader-Joe"}

	handler := NewMessageHandler(nil, config)

	assert.True(t, handler.senderAllowed("trader-joe"), "allow-list match is case insensitive")
	assert.False(t, handler.senderAllowed("impostor"))

	open := NewMessageHandler(nil, eventmodels.NewDefaultPipelineYAML())
	assert.True(t, open.senderAllowed("anyone"), "empty allow-list admits all senders")
}
