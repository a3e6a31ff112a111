// Package suggest produces draft field-observation text from a site photo.
// It is optional: the server exposes the endpoint only when a backend is
// configured.
package suggest

import "context"

// Prompt asks for short, factual notes in the register surveyors use.
const Prompt = `Você é um assistente de coleta de dados em campo. Descreva o imóvel da foto
em observações curtas e objetivas (estado da fachada, acesso, hidrômetro
visível, referências). Responda apenas com o texto das observações, em
português, sem preâmbulo.`

// Suggester turns a site photo into suggested observation text.
type Suggester interface {
	SuggestObservations(ctx context.Context, image []byte, mimeType string) (string, error)
}
