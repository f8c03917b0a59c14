package payment

import "strings"

var labels = map[Method]string{
	MethodCOD:    "Cash on delivery",
	MethodOnline: "Card payment",
}

var InstructionMap = map[Method][]string{
	MethodCOD: {
		"Your order will be delivered to the address above",
		"Keep {{amount}} in cash ready when the rider arrives",
		"Pay the rider directly and collect your receipt",
	},
	MethodOnline: {
		"Enter your card details in the secure payment form",
		"Complete any verification requested by your bank",
		"Wait until the payment of {{amount}} is confirmed",
	},
}

func GetInstructions(method Method) []string {
	if steps, ok := InstructionMap[method]; ok {
		return steps
	}

	return []string{
		"Follow the payment instructions shown on this page",
	}
}

type InstructionVars map[string]string

func InjectVariables(
	steps []string,
	vars InstructionVars,
) []string {
	result := make([]string, 0, len(steps))

	for _, step := range steps {
		updated := step
		for key, value := range vars {
			updated = strings.ReplaceAll(
				updated,
				"{{"+key+"}}",
				value,
			)
		}
		result = append(result, updated)
	}

	return result
}

// Options lists the methods offered for an order of the given display amount.
func Options(amount string) []Option {
	vars := InstructionVars{"amount": amount}
	out := make([]Option, 0, 2)
	for _, m := range []Method{MethodCOD, MethodOnline} {
		out = append(out, Option{
			Method:       m,
			Label:        labels[m],
			Instructions: InjectVariables(GetInstructions(m), vars),
		})
	}
	return out
}
