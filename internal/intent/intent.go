// Package intent defines the closed set of structured intents produced
// by the classifier and the repair parser that extracts them from raw
// model output.
package intent

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Action discriminates the intent variants. The literals are the wire
// contract with the classifier and must not be renamed.
type Action string

const (
	ActionRegister        Action = "REGISTRAR"
	ActionSuggestCategory Action = "SUGERIR_CRIACAO"
	ActionCreateCategory  Action = "CRIAR_CATEGORIA"
	ActionEdit            Action = "EDITAR"
	ActionDelete          Action = "EXCLUIR"
	ActionRegisterFixed   Action = "CADASTRAR_FIXO"
	ActionQuery           Action = "CONSULTAR"
	ActionConverse        Action = "CONVERSAR"
	ActionUnknown         Action = "DESCONHECIDO"
	ActionError           Action = "ERRO"
)

// MostRecentRef is the sentinel item reference meaning "the last entry
// in the ledger", independent of name.
const MostRecentRef = "ULTIMO"

type (
	// Intent is a tagged variant: Action selects which payload pointer
	// is set. Produced fresh per incoming message, never persisted.
	Intent struct {
		Action        Action
		Register      *RegisterPayload
		Suggest       *SuggestPayload
		NewCategory   *CreateCategoryPayload
		Edit          *EditPayload
		Delete        *DeletePayload
		RegisterFixed *RegisterFixedPayload
		Reply         string // Converse free text
	}

	// RegisterPayload carries the raw field values of a REGISTRAR
	// intent. Validation happens downstream, not here.
	RegisterPayload struct {
		Date     string
		Category string
		Item     string
		Amount   string
		Kind     string
	}

	SuggestPayload struct {
		Suggestion   string
		OriginalItem string
	}

	CreateCategoryPayload struct {
		Name string
	}

	EditPayload struct {
		Item      string // name fragment or MostRecentRef
		NewAmount string
	}

	DeletePayload struct {
		Item string
	}

	RegisterFixedPayload struct {
		Item     string
		Amount   string
		Category string
	}
)

// looseString tolerates the model emitting a bare number where the
// contract asks for a string (e.g. "valor": 25.5).
type looseString string

func (l *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = looseString(s)
		return nil
	}
	*l = looseString(data)
	return nil
}

// envelope is the raw wire shape shared by all variants.
type envelope struct {
	Action string `json:"acao"`
	Reply  string `json:"resposta"`
	Data   struct {
		Date         looseString `json:"data"`
		Category     string      `json:"categoria"`
		Item         looseString `json:"item"`
		Amount       looseString `json:"valor"`
		Kind         string      `json:"tipo"`
		Suggestion   string      `json:"sugestao"`
		OriginalItem string      `json:"item_original"`
		NewCategory  string      `json:"nova_categoria"`
		NewAmount    looseString `json:"novo_valor"`
	} `json:"dados"`
}

// fromEnvelope maps a decoded envelope onto the variant its
// discriminator names. Unrecognized discriminators become Unknown
// rather than an error so the dispatcher always has a branch to take.
func fromEnvelope(env envelope) *Intent {
	action := Action(strings.ToUpper(strings.TrimSpace(env.Action)))
	switch action {
	case ActionRegister:
		return &Intent{Action: action, Register: &RegisterPayload{
			Date:     string(env.Data.Date),
			Category: env.Data.Category,
			Item:     string(env.Data.Item),
			Amount:   string(env.Data.Amount),
			Kind:     env.Data.Kind,
		}}
	case ActionSuggestCategory:
		return &Intent{Action: action, Suggest: &SuggestPayload{
			Suggestion:   env.Data.Suggestion,
			OriginalItem: env.Data.OriginalItem,
		}}
	case ActionCreateCategory:
		return &Intent{Action: action, NewCategory: &CreateCategoryPayload{
			Name: env.Data.NewCategory,
		}}
	case ActionEdit:
		return &Intent{Action: action, Edit: &EditPayload{
			Item:      string(env.Data.Item),
			NewAmount: string(env.Data.NewAmount),
		}}
	case ActionDelete:
		return &Intent{Action: action, Delete: &DeletePayload{
			Item: string(env.Data.Item),
		}}
	case ActionRegisterFixed:
		return &Intent{Action: action, RegisterFixed: &RegisterFixedPayload{
			Item:     string(env.Data.Item),
			Amount:   string(env.Data.Amount),
			Category: env.Data.Category,
		}}
	case ActionQuery:
		return &Intent{Action: action}
	case ActionConverse:
		return &Intent{Action: action, Reply: env.Reply}
	case ActionError:
		return &Intent{Action: action}
	default:
		return &Intent{Action: ActionUnknown}
	}
}
