package engine

// buildDispatchTable maps lowercased API method names to their handlers.
// Legacy aliases the platform still accepts are routed to the same handler.
func (e *Engine) buildDispatchTable() map[string]handlerFunc {
	return map[string]handlerFunc{
		"getme":                 e.getMe,
		"setmyname":             e.setMyName,
		"getmyname":             e.getMyName,
		"setmydescription":      e.setMyDescription,
		"getmydescription":      e.getMyDescription,
		"setmyshortdescription": e.setMyShortDescription,
		"getmyshortdescription": e.getMyShortDescription,
		"setmycommands":         e.setMyCommands,
		"getmycommands":         e.getMyCommands,
		"deletemycommands":      e.deleteMyCommands,

		"sendmessage":            e.sendMessage,
		"forwardmessage":         e.forwardMessage,
		"copymessage":            e.copyMessage,
		"sendphoto":              e.sendPhoto,
		"senddocument":           e.sendDocument,
		"sendaudio":              e.sendAudio,
		"sendvideo":              e.sendVideo,
		"sendvoice":              e.sendVoice,
		"sendanimation":          e.sendAnimation,
		"sendsticker":            e.sendSticker,
		"sendlocation":           e.sendLocation,
		"sendvenue":              e.sendVenue,
		"sendcontact":            e.sendContact,
		"senddice":               e.sendDice,
		"sendchataction":         e.sendChatAction,
		"editmessagetext":        e.editMessageText,
		"editmessagecaption":     e.editMessageCaption,
		"editmessagereplymarkup": e.editMessageReplyMarkup,
		"deletemessage":          e.deleteMessage,
		"deletemessages":         e.deleteMessages,
		"setmessagereaction":     e.setMessageReaction,
		"pinchatmessage":         e.pinChatMessage,
		"unpinchatmessage":       e.unpinChatMessage,
		"unpinallchatmessages":   e.unpinAllChatMessages,

		"sendpoll": e.sendPoll,
		"stoppoll": e.stopPoll,

		"getchat":               e.getChat,
		"getchatadministrators": e.getChatAdministrators,
		"getchatmembercount":    e.getChatMemberCount,
		"getchatmemberscount":   e.getChatMemberCount,
		"getchatmember":         e.getChatMember,
		"setchattitle":          e.setChatTitle,
		"setchatdescription":    e.setChatDescription,
		"setchatphoto":          e.setChatPhoto,
		"deletechatphoto":       e.deleteChatPhoto,
		"setchatpermissions":    e.setChatPermissions,
		"leavechat":             e.leaveChat,
		"getuserprofilephotos":  e.getUserProfilePhotos,
		"setchatmenubutton":     e.setChatMenuButton,
		"getchatmenubutton":     e.getChatMenuButton,

		"banchatmember":                   e.banChatMember,
		"kickchatmember":                  e.banChatMember,
		"unbanchatmember":                 e.unbanChatMember,
		"restrictchatmember":              e.restrictChatMember,
		"promotechatmember":               e.promoteChatMember,
		"setchatadministratorcustomtitle": e.setChatAdministratorCustomTitle,
		"approvechatjoinrequest":          e.approveChatJoinRequest,
		"declinechatjoinrequest":          e.declineChatJoinRequest,

		"exportchatinvitelink":             e.exportChatInviteLink,
		"createchatinvitelink":             e.createChatInviteLink,
		"editchatinvitelink":               e.editChatInviteLink,
		"revokechatinvitelink":             e.revokeChatInviteLink,
		"createchatsubscriptioninvitelink": e.createChatSubscriptionInviteLink,
		"editchatsubscriptioninvitelink":   e.editChatSubscriptionInviteLink,

		"createforumtopic":        e.createForumTopic,
		"editforumtopic":          e.editForumTopic,
		"closeforumtopic":         e.closeForumTopic,
		"reopenforumtopic":        e.reopenForumTopic,
		"deleteforumtopic":        e.deleteForumTopic,
		"editgeneralforumtopic":   e.editGeneralForumTopic,
		"closegeneralforumtopic":  e.closeGeneralForumTopic,
		"reopengeneralforumtopic": e.reopenGeneralForumTopic,
		"hidegeneralforumtopic":   e.hideGeneralForumTopic,
		"unhidegeneralforumtopic": e.unhideGeneralForumTopic,

		"getfile": e.getFile,

		"getstickerset":           e.getStickerSet,
		"uploadstickerfile":       e.uploadStickerFile,
		"createnewstickerset":     e.createNewStickerSet,
		"addstickertoset":         e.addStickerToSet,
		"deletestickerfromset":    e.deleteStickerFromSet,
		"setstickerpositioninset": e.setStickerPositionInSet,
		"setstickersettitle":      e.setStickerSetTitle,
		"setstickersetthumbnail":  e.setStickerSetThumbnail,
		"deletestickerset":        e.deleteStickerSet,

		"answercallbackquery":    e.answerCallbackQuery,
		"answerinlinequery":      e.answerInlineQuery,
		"answershippingquery":    e.answerShippingQuery,
		"answerprecheckoutquery": e.answerPreCheckoutQuery,

		"sendinvoice":           e.sendInvoice,
		"refundstarpayment":     e.refundStarPayment,
		"getstartransactions":   e.getStarTransactions,
		"getbusinessconnection": e.getBusinessConnection,
		"setpassportdataerrors": e.setPassportDataErrors,

		"setwebhook":     e.setWebhook,
		"deletewebhook":  e.deleteWebhook,
		"getwebhookinfo": e.getWebhookInfo,
		"getupdates":     e.getUpdates,
	}
}
