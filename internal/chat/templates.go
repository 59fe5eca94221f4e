package chat

import (
	"fmt"
	"strings"

	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/Behyna/streamstore/pkg/money"
)

const (
	msgMenu = "Choose an option:\n\n" +
		"*topup* - add balance to your account\n" +
		"*screens* - streaming screens available right now\n" +
		"*info* - how it works, rules and delivery times\n" +
		"*support* - talk to a human\n" +
		"*about* - who built this bot\n" +
		"*help* - how to use the bot\n" +
		"*balance* - your current balance"

	msgHelp = "How to use the store\n\n" +
		"- Type *menu* to see every option.\n" +
		"- Type *screens* to see what is for sale, then *buy ID* to buy one.\n" +
		"- Type *topup* to add balance and send the payment proof image here.\n" +
		"- Type *support* if something went wrong."

	msgInfo = "*SERVICE INFORMATION*\n\n" +
		"*Streaming screens*\n" +
		"- HD/4K depending on the platform\n" +
		"- 30 days of warranty\n\n" +
		"*Terms of use*\n" +
		"- Do not share your credentials\n" +
		"- Do not change account passwords\n" +
		"- No refunds after purchase\n\n" +
		"*Opening hours*\n" +
		"Monday to Friday: 09h to 18h\n" +
		"Saturday: 10h to 14h"

	msgSupport = "*SUPPORT*\n\n" +
		"If your screen is not working:\n" +
		"1. Check your internet connection\n" +
		"2. Log out and log in again\n" +
		"3. Clear the app cache\n\n" +
		"If it still fails, describe the platform, your device and any error message. " +
		"An administrator will look at it as soon as possible."

	msgAbout = "This store bot is maintained by the store team."

	msgFallback = "For help, type *help*.\nTo see the menu, type *menu*."

	msgError = "Something went wrong while processing your message. Please try again."

	msgNoScreens = "There are no streaming screens available right now. Please try again later."

	msgItemNotFound = "This screen is not available for purchase."

	msgProofReceived = "*PAYMENT PROOF RECEIVED*\n\n" +
		"Your proof was received. Please wait while we check your payment."

	msgProofUnsupported = "Only images are accepted as payment proof."

	msgProofTooLarge = "This image is too large. Please send a smaller one."

	msgProofFailed = "We could not process your payment proof. Please try again later or contact support."

	msgCompensationFailed = "We could not complete your purchase and your refund needs a manual check. " +
		"An administrator has been notified."

	msgBuyUsage = "To buy, send: *buy ID*"
)

func formatAmount(a money.Amount) string {
	return constants.CurrencySymbol + " " + a.String()
}

func balanceMessage(balance money.Amount) string {
	return "Your current balance is " + formatAmount(balance)
}

func topUpMessage(key service.PaymentKey) string {
	var b strings.Builder
	b.WriteString("To add balance, send a payment with the amount you want to:\n\n")
	fmt.Fprintf(&b, "Key (%s): %s\n", key.Type, key.Key)
	if key.Holder != "" {
		fmt.Fprintf(&b, "Name: %s\n", key.Holder)
	}
	b.WriteString("\nThen send the payment proof image here in the chat.\n")
	b.WriteString("Confirmation can take up to 10 minutes.")
	return b.String()
}

func screensMessage(groups []service.PlatformGroup, balance money.Amount) string {
	var b strings.Builder
	b.WriteString("*AVAILABLE STREAMING SCREENS*\n\n")
	b.WriteString(msgBuyUsage + "\n\n")

	for _, group := range groups {
		fmt.Fprintf(&b, "*%s*\n", strings.ToUpper(group.Platform))
		for _, item := range group.Items {
			fmt.Fprintf(&b, "ID: %d - Slot: %d - Price: %s\n", item.ID, item.Slot, formatAmount(item.Price))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Your balance: %s\n", formatAmount(balance))
	b.WriteString("Check availability before buying!")
	return b.String()
}

func purchaseCompletedMessage(item *model.InventoryItem, balance money.Amount) string {
	var b strings.Builder
	b.WriteString("*PURCHASE COMPLETED*\n\n")
	fmt.Fprintf(&b, "*%s screen* (slot %d)\n\n", item.Platform, item.Slot)
	if item.Email != nil {
		fmt.Fprintf(&b, "*E-mail*: %s\n", *item.Email)
	}
	if item.Password != nil {
		fmt.Fprintf(&b, "*Password*: %s\n", *item.Password)
	}
	fmt.Fprintf(&b, "*Valid until*: %s\n\n", item.ExpiresOn)
	b.WriteString("*IMPORTANT*:\n- Use one device at a time\n- Do not change the account settings\n\n")
	fmt.Fprintf(&b, "Your balance: %s\n\nThank you for your purchase!", formatAmount(balance))
	return b.String()
}

func insufficientFundsMessage(required, balance money.Amount) string {
	return fmt.Sprintf("Insufficient balance. You need %s to buy this screen but have only %s.",
		formatAmount(required), formatAmount(balance))
}

func itemUnavailableMessage(balance money.Amount) string {
	return fmt.Sprintf("Sorry, this screen was just sold to someone else. You were not charged. Your balance: %s",
		formatAmount(balance))
}
