package engine

// Agent copy. Kept together so product wording changes stay out of the
// transition logic.
const (
	// Greeting is seeded by the session driver when a conversation starts or
	// is reset.
	Greeting = "Welcome to Yellow Bank! 🏦\n\nI'm your banking assistant. How can I help you today?\n\nYou can say things like \"Show my loan details\" to get started."

	msgEnglishOnly = "I'm sorry, I can only communicate in English. Could you please rephrase your request in English? 🙏"
	msgResetAck    = "No problem! I've cleared your previous details. Let's start fresh.\n\nPlease share your registered phone number."
	msgOneMoment   = "One moment, I'm still working on your previous request."

	msgIntentHint = "I can help you check your loan details. Just say \"Show my loan details\" or \"Check loan details\" to get started!"
	msgAskPhone   = "I'd be happy to help you with your loan details! 📋\n\nFirst, I'll need to verify your identity. Please share your registered phone number."

	msgPhoneInvalid  = "I couldn't find a valid 10-digit phone number in your message. Please enter your registered phone number (e.g., 9876543210)."
	msgPhoneNotedFmt = "Great, phone number noted: %s\n\nNow, please share your Date of Birth (e.g., 15/03/1990)."

	msgDOBInvalid = "That doesn't look like a valid date of birth. Please enter it in a format like DD/MM/YYYY."
	msgSendingOTP = "Thank you! Sending OTP to your registered number... ⏳"

	msgOTPSentFmt   = "OTP has been sent to your registered number.\n\n🔐 [Mock OTP: %d]\n\nPlease enter the OTP to proceed."
	msgOTPFailedFmt = "❌ %s\n\nLet's try again. Please share your registered phone number."
	msgOTPPrompt    = "Please enter the 4-digit OTP sent to your phone."
	msgOTPWrongFmt  = "❌ Incorrect OTP. You have %d attempt(s) remaining.\n\nPlease enter the correct OTP."
	msgOTPLockout   = "❌ Maximum OTP attempts reached. For security, please start over.\n\nSay \"Check my loan details\" to try again."
	msgOTPVerified  = "✅ OTP verified successfully! Fetching your loan accounts..."

	msgAccountsIntro          = "Here are your loan accounts. Please select one to view details:"
	msgAccountsAgain          = "Here are your loan accounts again:"
	msgAccountsFailedFmt      = "❌ %s\n\nPlease try again by saying \"Check my loan details\"."
	msgAccountsFailedShortFmt = "❌ %s"
	msgSelectFromList         = "Please select a loan account from the cards above by clicking on it."

	msgDetailsIntroFmt  = "Here are the details for your %s:\n\nEMI: %s · Next payment due: %s"
	msgDetailsFailedFmt = "❌ %s Please try selecting again."
	msgDetailsHint      = "Your loan details are shown above. You can click \"Rate our chat\" to share your feedback, or ask me anything else!"

	msgRatingPrompt   = "We'd love to hear your feedback! How would you rate this conversation?"
	msgSelectRating   = "Please select a rating from the options above."
	msgFeedbackPrompt = "Thank you for your rating! Would you like to share any additional feedback? Type your thoughts or say \"no thanks\" to finish."
	msgFeedbackThanks = "Thank you for your valuable feedback! We'll use it to improve our service. 🌟"
	msgSurveyDone     = "Thank you for banking with Yellow Bank! Have a wonderful day! 🌟"

	msgClosing = "Thank you for using Yellow Bank! If you need anything else, feel free to ask about your loan details."
	msgRestart = "Sure! Let me help you with loan details again.\n\nPlease share your registered phone number."
)
