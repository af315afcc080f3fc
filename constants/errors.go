package constants

// Messages d'erreur HTTP courants
const (
	ErrMethodNotAllowed = "Method not allowed"
	ErrServerError      = "Something went wrong. Please try again."
	ErrInvalidData      = "Invalid data"
	ErrInvalidJSONBody  = "Invalid JSON body"
	ErrNotAuthenticated = "Not authenticated"
	ErrInvalidToken     = "Invalid or expired session"
	ErrSessionRevoked   = "Your session has ended. Please sign in again."
	ErrAlreadySignedIn  = "Already signed in"
	ErrSignInFailed     = "Failed to sign in"
	ErrInvalidKind      = "Unknown gallery kind"
	ErrMediaNotFound    = "Media item not found"
	ErrStaticMedia      = "Built-in gallery items cannot be deleted"
	ErrPendingNotFound  = "No pending deletion for this token"
	ErrBusy             = "Please wait, your previous submission is still in progress."
	ErrOffline          = "You appear to be offline. Please check your connection."
	ErrGalleryLoad      = "Failed to load gallery data. Please try again."
	ErrStatsLoad        = "Could not fetch statistics from the server."
	ErrNoImage          = "Please select an image file to upload."
	ErrNoVideoURL       = "Please provide a YouTube video URL."
	ErrUploadFailed     = "Failed to upload the image. Please try again."
	ErrAddFailed        = "Failed to add the video."
	ErrDeleteFailed     = "Failed to delete the item."
	ErrStatsFields      = "Please fill all statistic fields"
	ErrStatsInvalid     = "Please enter valid numbers"
	ErrStatsRange       = "Statistics must be whole, non-negative numbers and success rate at most 100"
	ErrStatsFailed      = "Failed to update statistics."
	ErrDonationFailed   = "Unable to start the payment. Please try again."
	ErrDonationMissing  = "Please fill in all required fields."
	ErrMonthlyCustom    = "Monthly donations require selecting one of our preset amounts"
	ErrMonthlyAmount    = "Please select a valid monthly donation amount"
	ErrCurrency         = "Unsupported currency"
	ErrWebhookSignature = "Invalid webhook signature"
	ErrEmailFailed      = "Failed to send your message. Please try again later."
	ErrNewsletterFailed = "Failed to subscribe. Please try again later."
)

// Titres des notifications (toast) côté client
const (
	TitleError        = "Error"
	TitleOffline      = "Offline"
	TitleBusy         = "Please wait"
	TitleLoginFailed  = "Login Failed"
	TitleGalleryLoad  = "Error loading gallery"
	TitleStatsLoad    = "Failed to load statistics"
	TitleNoImage      = "No Image Selected"
	TitleUploadFailed = "Upload Failed"
	TitleNoVideoURL   = "No Video URL"
	TitleAddFailed    = "Add Failed"
	TitleDeleteFailed = "Delete Failed"
	TitleMissing      = "Missing Values"
	TitleInvalid      = "Invalid Values"
	TitleUpdateFailed = "Update Failed"
	TitleMissingInfo  = "Missing Information"
	TitleInvalidSel   = "Invalid Selection"
	TitleInvalidAmt   = "Invalid Amount"
	TitleNotAllowed   = "Not allowed"
)

// Messages de succès
const (
	MsgLoginSuccess    = "You are now logged into the admin dashboard."
	MsgLoggedOut       = "You have been successfully logged out."
	MsgImageAdded      = "The image has been added to the gallery."
	MsgVideoAdded      = "The video has been added to the gallery."
	MsgImageDeleted    = "The image has been removed from the gallery."
	MsgVideoDeleted    = "The video has been removed from the gallery."
	MsgDeletionCancel  = "Deletion cancelled"
	MsgStatsUpdated    = "The homepage statistics have been updated."
	MsgContactSent     = "Thank you for contacting us. We'll respond as soon as possible."
	MsgContactNewsOK   = " You've also been subscribed to our newsletter!"
	MsgContactNewsKO   = " There was an issue with the newsletter subscription, but your message was sent successfully."
	DefaultVideoTitle  = "YouTube Video"
	NewsletterConsent  = "You must consent to receive our newsletter to subscribe."
	NewsletterExists   = "You are already subscribed to our newsletter!"
	NewsletterSuccess  = "Successfully subscribed to newsletter!"
	NewsletterDemoMode = " (Demo mode)"
)

// En-têtes HTTP
const (
	HeaderContentType     = "Content-Type"
	HeaderApplicationJSON = "application/json"
	HeaderAuthorization   = "Authorization"
	HeaderFlutterwaveHash = "verif-hash"
)
