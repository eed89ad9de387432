package email

import (
	"fmt"
	"strings"

	"github.com/example/shopmart/internal/domain/cart"
)

// BuildOrderConfirmationBody builds the HTML body for the order
// confirmation email. Amounts are in the smallest currency unit and
// rendered here as whole rupees.
func BuildOrderConfirmationBody(orderID string, total int, lines []cart.Line) string {
	var rows strings.Builder
	for _, line := range lines {
		name := line.Name
		if name == "" {
			name = line.ProductID
		}
		rows.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 10px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 10px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right;">&#8377;%d</td>
				<td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right;">&#8377;%d</td>
			</tr>`,
			name,
			line.Quantity,
			line.UnitPrice,
			line.LineTotal,
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
</head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #1d4ed8; padding: 24px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 22px;">Thanks for your order!</h1>
	</div>

	<div style="background: #fff; padding: 24px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Your order has been placed successfully and is now being processed.</p>

		<div style="background: #f8f9fa; padding: 12px; border-radius: 5px; margin: 16px 0;">
			<p style="margin: 0; font-size: 13px; color: #666;">Order number</p>
			<p style="margin: 4px 0 0 0; font-size: 17px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<table style="width: 100%%; border-collapse: collapse; margin: 16px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 10px; text-align: left;">Item</th>
					<th style="padding: 10px; text-align: center;">Qty</th>
					<th style="padding: 10px; text-align: right;">Price</th>
					<th style="padding: 10px; text-align: right;">Subtotal</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
		</table>

		<div style="text-align: right; padding: 16px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 13px; color: #666;">Order total</span>
			<span style="font-size: 22px; font-weight: bold; color: #1d4ed8; margin-left: 8px;">&#8377;%d</span>
		</div>

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			You can track your order from the My Orders page at any time.
		</p>
	</div>
</body>
</html>`, orderID, rows.String(), total)
}
