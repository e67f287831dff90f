package ai

import (
	"fmt"
	"strings"
	"time"
)

// BuildIntentPrompt constructs the classification prompt: it enumerates
// the allowed categories, pins today's date for relative references
// ("yesterday", "last friday") and spells out the exact JSON contract
// for every action. The model must answer with a single JSON object.
func BuildIntentPrompt(userText string, categories []string) string {
	today := time.Now().Format("02/01/2006")
	return fmt.Sprintf(`You are the intent classifier of a personal finance assistant.
Today is %s (DD/MM/YYYY). The user's configured categories are: %s.

Classify the user message into exactly one action and respond with a
single JSON object, no prose, no code fences. The shapes are:

{"acao":"REGISTRAR","dados":{"data":"DD/MM/AAAA","categoria":"<existing category>","item":"<name>","valor":"0.00","tipo":"Saída|Entrada"}}
{"acao":"SUGERIR_CRIACAO","dados":{"sugestao":"<new category>","item_original":"<name>"}}
{"acao":"CRIAR_CATEGORIA","dados":{"nova_categoria":"<name>"}}
{"acao":"EDITAR","dados":{"item":"<name>|ULTIMO","novo_valor":"0.00"}}
{"acao":"EXCLUIR","dados":{"item":"<name>|ULTIMO"}}
{"acao":"CADASTRAR_FIXO","dados":{"item":"<name>","valor":"0.00","categoria":"<existing category>"}}
{"acao":"CONSULTAR"}
{"acao":"CONVERSAR","resposta":"<short friendly reply>"}

Rules:
- REGISTRAR only with a category from the configured list; when the
  natural category is missing from the list, use SUGERIR_CRIACAO.
- "tipo" is "Entrada" for money received and "Saída" for money spent.
- "item":"ULTIMO" means the most recent entry.
- Resolve relative dates against today's date.
- When the message is chit-chat or unrelated to finances, use
  CONVERSAR with a brief reply.

User message: %q`, today, strings.Join(categories, ", "), userText)
}
