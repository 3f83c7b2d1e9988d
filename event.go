package ledger

import "fmt"

// Event is a notification about a committed ledger operation, addressed to
// the owner of the originating account. Events are published after the
// store transaction commits and are not part of the atomic unit.
type Event struct {
	Email   string
	Payload string
}

func NewTransferExecutedEvent(
	email string,
	transaction *Transaction,
) *Event {
	return &Event{
		Email: email,
		Payload: fmt.Sprintf(
			"Transfer has been executed:\n"+
				"- Reference: %v\n"+
				"- From account: %v\n"+
				"- To account: %v\n"+
				"- Amount: %v\n"+
				"- Description: %v",
			transaction.Reference,
			transaction.FromAccountNumber,
			transaction.ToAccountNumber,
			transaction.Amount.StringFixed(2),
			transaction.Description,
		),
	}
}

func NewTradeExecutedEvent(email string, trade *Trade) *Event {
	payload := fmt.Sprintf(
		"Trade has been executed:\n"+
			"- Reference: %v\n"+
			"- Symbol: %v\n"+
			"- Side: %v\n"+
			"- Quantity: %v\n"+
			"- Price per share: %v\n"+
			"- Total amount: %v",
		trade.Reference,
		trade.Symbol,
		trade.Side,
		trade.Quantity,
		trade.PricePerShare.StringFixed(2),
		trade.TotalAmount.StringFixed(2),
	)

	if trade.ProfitLoss != nil {
		payload += fmt.Sprintf(
			"\n- Profit/loss: %v",
			trade.ProfitLoss.StringFixed(2),
		)
	}

	return &Event{Email: email, Payload: payload}
}

type EventService interface {
	Publish(event *Event)
}
