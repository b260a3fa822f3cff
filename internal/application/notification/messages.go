package notification

import (
	"fmt"
	"strings"

	"github.com/swiftbasket/backend/internal/domain/catalog"
	"github.com/swiftbasket/backend/internal/domain/identity"
	"github.com/swiftbasket/backend/internal/domain/notification"
	"github.com/swiftbasket/backend/internal/domain/trade"
)

// Message templates for every outbound channel live here so the exact
// wording is covered by tests in one place.

const invoiceSubject = "Your SwiftBasket Invoice & Payment Instructions"

const invoiceBodyTemplate = `Hi %s,

Thank you for shopping with SwiftBasket.
Below is your invoice:

Order Summary:
%s
Total Amount Due: R%s

To confirm order, please make payment to the following account:
%s
Bank Name     : SwiftBank
Account Name  : SwiftBasket Payments
Account Number: 1234567890
Branch Code   : 000123
Reference     : %s-%s
%s

Once payment is received, we'll begin processing your order
for shipment.

If you have any questions, feel free to reply to this email.

Thank you for your business!
- SwiftBasket Team`

// BuildInvoiceEmail renders the invoice with payment instructions sent
// to the buyer after checkout. The payment reference is the uppercased
// username joined with the order number.
func BuildInvoiceEmail(event *trade.OrderPlacedEvent) notification.Email {
	var summary strings.Builder
	for _, item := range event.Items {
		fmt.Fprintf(&summary, "%s\n  Qty: %d    Price: R%s\n  Subtotal: R%s\n\n",
			item.ProductName,
			item.Quantity,
			item.UnitPrice.StringFixed(2),
			item.Subtotal.StringFixed(2))
	}

	divider := strings.Repeat("-", 60)
	body := fmt.Sprintf(invoiceBodyTemplate,
		event.BuyerUsername,
		summary.String(),
		event.TotalPrice.StringFixed(2),
		divider,
		strings.ToUpper(event.BuyerUsername),
		event.OrderNumber,
		divider)

	return notification.Email{
		To:      event.BuyerEmail,
		Subject: invoiceSubject,
		Body:    body,
	}
}

// BuildOrderSalePost renders the public sale announcement. It names the
// sold products and their stores only; buyer details never appear here.
func BuildOrderSalePost(event *trade.OrderPlacedEvent) string {
	var post strings.Builder
	post.WriteString("🛒 Fresh order on SwiftBasket!\n")
	for _, item := range event.Items {
		fmt.Fprintf(&post, "- %s from %s\n", item.ProductName, item.StoreName)
	}
	post.WriteString("#SwiftBasket #JustSold")
	return post.String()
}

// BuildStoreLaunchPost renders the public announcement for a new store
func BuildStoreLaunchPost(event *catalog.StoreCreatedEvent) string {
	return fmt.Sprintf("🛍️ New on SwiftBasket!\nStore Name: %s\n%s\n#ShopSwift #SwiftBasketLaunch",
		event.Name, event.Description)
}

const storeLaunchSubject = "Your SwiftBasket store is live"

const storeLaunchBodyTemplate = `Hi %s,

Your store "%s" is now live on SwiftBasket.

Add your first products and they will show on your store page
right away. Every new product is announced on our channels.

Good luck with the sales!
- SwiftBasket Team`

// BuildStoreLaunchEmail renders the confirmation sent to the vendor
// when their store goes live
func BuildStoreLaunchEmail(event *catalog.StoreCreatedEvent) notification.Email {
	return notification.Email{
		To:      event.VendorEmail,
		Subject: storeLaunchSubject,
		Body:    fmt.Sprintf(storeLaunchBodyTemplate, event.VendorUsername, event.Name),
	}
}

// BuildProductLaunchPost renders the public announcement for a new product
func BuildProductLaunchPost(event *catalog.ProductCreatedEvent) string {
	return fmt.Sprintf("New from %s on SwiftBasket!\n%s:\n%s\n#SwiftBasket #NowAvailable",
		event.StoreName, event.Name, event.Description)
}

const productLaunchSubject = "Your product is live on SwiftBasket"

const productLaunchBodyTemplate = `Hi %s,

"%s" has been published to %s at R%s.

Buyers can find it on your store page from now on.

- SwiftBasket Team`

// BuildProductLaunchEmail renders the confirmation sent to the vendor
// when a product goes live
func BuildProductLaunchEmail(event *catalog.ProductCreatedEvent) notification.Email {
	return notification.Email{
		To:      event.VendorEmail,
		Subject: productLaunchSubject,
		Body: fmt.Sprintf(productLaunchBodyTemplate,
			event.VendorUsername,
			event.Name,
			event.StoreName,
			event.Price.StringFixed(2)),
	}
}

const welcomeSubject = "Welcome to SwiftBasket"

const welcomeBodyTemplate = `Hi %s,

Welcome to SwiftBasket! Your account is ready.

Browse the stores, fill your basket and check out whenever
you are ready.

Thank you for joining us!
- SwiftBasket Team`

// BuildWelcomeEmail renders the greeting sent to a fresh account
func BuildWelcomeEmail(event *identity.UserRegisteredEvent) notification.Email {
	return notification.Email{
		To:      event.Email,
		Subject: welcomeSubject,
		Body:    fmt.Sprintf(welcomeBodyTemplate, event.Username),
	}
}

const passwordResetSubject = "Password Reset"

const passwordResetBodyTemplate = `Hi %s,

You requested a password reset. Click the link below to reset your password:

%s

This link will expire in 5 minutes.

If you didn't request this, you can ignore this email.
`

// BuildPasswordResetEmail renders the reset email around the one-time
// link the caller assembled
func BuildPasswordResetEmail(event *identity.PasswordResetRequestedEvent, resetURL string) notification.Email {
	return notification.Email{
		To:      event.Email,
		Subject: passwordResetSubject,
		Body:    fmt.Sprintf(passwordResetBodyTemplate, event.Username, resetURL),
	}
}
