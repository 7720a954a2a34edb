package models

// Action tokens emitted by the advisory agents. Opaque strings on the
// wire; the constants exist so the escalation vocabulary and the agents
// cannot drift apart.
const (
	ActionBlockCaller         = "BLOCK_CALLER"
	ActionAlertFamily         = "ALERT_FAMILY"
	ActionVerifyIndependently = "VERIFY_INDEPENDENTLY"
	ActionDoNotPay            = "DO_NOT_PAY"
	ActionHangUp              = "HANG_UP"
	ActionContactAuthorities  = "CONTACT_AUTHORITIES"
	ActionDoNotShare          = "DO_NOT_SHARE"
	ActionReviewBill          = "REVIEW_BILL"
	ActionContactInsurance    = "CONTACT_INSURANCE"
	ActionCalculatePremium    = "CALCULATE_PREMIUM"
	ActionUpdateDocuments     = "UPDATE_DOCUMENTS"
	ActionConsultAttorney     = "CONSULT_ATTORNEY"
	ActionReviewPOA           = "REVIEW_POA"
	ActionUpdateFamilyInfo    = "UPDATE_FAMILY_INFO"
	ActionUpdateAlertPrefs    = "UPDATE_ALERT_PREFS"
	ActionVerifyFamily        = "VERIFY_FAMILY"
	ActionDoNotSendMoney      = "DO_NOT_SEND_MONEY"
	ActionTryAgain            = "TRY_AGAIN"
	ActionContactSupport      = "CONTACT_SUPPORT"
)

// AlertWorthyActions is the vocabulary that, intersected with an
// incident's merged actions, permits a family escalation.
var AlertWorthyActions = []string{
	ActionBlockCaller,
	ActionDoNotPay,
	ActionAlertFamily,
	ActionContactAuthorities,
	ActionDoNotSendMoney,
	ActionHangUp,
}
