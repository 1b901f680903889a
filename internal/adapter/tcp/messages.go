package tcp

// Lines sent to the peer. Prompts end without a newline; informational
// lines get one appended by info().
const (
	msgWelcome            = "Welcome to ATM.\nEnter your mobile number to begin (or 'exit' to quit): "
	msgFarewellVisit      = "Thank you for visiting. Goodbye!\n"
	msgFarewellUse        = "Thank you for using ATM. Goodbye!\n"
	msgInvalidIdentifier  = "Invalid mobile number. Connection closed.\n"
	msgRegistered         = "New user registered. Your PIN is %s. Initial balance: %s%s."
	msgAlreadyRegistered  = "User already registered. Please continue."
	msgPINPrompt          = "Enter your %d-digit PIN (or 'exit' to quit): "
	msgAuthSuccess        = "Authentication successful."
	msgWrongPIN           = "Wrong PIN. %d attempts remaining."
	msgBlacklistedNow     = "Wrong PIN. This number is now blacklisted due to multiple failed attempts."
	msgBlacklisted        = "This number is blacklisted due to multiple failed attempts."
	msgNotRegistered      = "User not registered."
	msgTooManyPINFailures = "Too many failed attempts. Please try again later.\n"

	msgMenu = "\nSelect an option:\n" +
		"1. Withdraw\n" +
		"2. Deposit\n" +
		"3. Exit\n" +
		"Enter choice (1, 2, or 3): "
	msgInvalidOption = "Invalid option. Please enter 1 for Withdraw, 2 for Deposit, or 3 to Exit.\n"

	msgWithdrawPrompt       = "Enter amount to withdraw (or 'exit' to cancel): "
	msgDepositPrompt        = "Enter amount to deposit (or 'exit' to cancel): "
	msgTransactionCancelled = "Transaction cancelled.\n"
	msgInvalidAmount        = "Invalid amount. Please enter a number (or 'exit' to cancel): "
	msgTooManyInvalidInputs = "Too many invalid inputs. Transaction cancelled.\n"
	msgWithdrawOK           = "Withdrawal successful. New balance: %s%s"
	msgDepositOK            = "Deposit successful. New balance: %s%s"

	msgServerError        = "Server error. Connection closing.\n"
	msgTooManyConnections = "Too many connections. Please try again later. Goodbye!\n"
)
