package enum

type MessageDirection string

const (
	MessageInbound  MessageDirection = "inbound"
	MessageOutbound MessageDirection = "outbound"
)

func (t MessageDirection) String() string {
	return string(t)
}

type SenderCategory string

const (
	SenderVetClinic  SenderCategory = "vet_clinic"
	SenderGroomer    SenderCategory = "groomer"
	SenderLaboratory SenderCategory = "laboratory"
	SenderInsurance  SenderCategory = "insurance"
	SenderPharmacy   SenderCategory = "pharmacy"
	SenderOther      SenderCategory = "other"
)

func (t SenderCategory) String() string {
	return string(t)
}

type ThreadAuditAction string

const (
	ThreadDeleted  ThreadAuditAction = "deleted"
	ThreadRestored ThreadAuditAction = "restored"
)

func (t ThreadAuditAction) String() string {
	return string(t)
}
