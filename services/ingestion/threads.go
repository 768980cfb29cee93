package ingestion

import (
	"context"
	"fmt"
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/pawtrail/mailroom/dto"
	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/repository"
	"github.com/pawtrail/mailroom/internal/tracing"
	"github.com/pawtrail/mailroom/internal/utils"
)

// recordThreadMessage upserts the (pet, counterparty) thread and appends the
// cleaned inbound message. Serialized per pair so concurrent deliveries from
// the same sender don't race on thread bookkeeping.
func (s *ingestionService) recordThreadMessage(ctx context.Context, pet *models.Pet, email dto.InboundEmail, cleanedText, cleanedHTML string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestionService.recordThreadMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("pet_id", pet.ID)

	counterparty := strings.ToLower(strings.TrimSpace(email.FromAddress))
	lockKey := pet.ID + "|" + counterparty
	s.threadLocks.Lock(lockKey)
	defer s.threadLocks.Unlock(lockKey)

	thread, err := s.repositories.MessageThreadRepository.GetByPetAndCounterparty(ctx, pet.ID, counterparty)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	if thread == nil {
		thread = &models.MessageThread{
			PetID:               pet.ID,
			CounterpartyAddress: counterparty,
			CounterpartyName:    email.FromName,
			Subject:             utils.NormalizeEmailSubject(email.Subject),
			SenderCategory:      CategorizeSender(counterparty, email.FromName),
			ReplyAddress:        s.newReplyAddress(),
		}
		if _, err := s.repositories.MessageThreadRepository.Create(ctx, thread); err != nil {
			if !errors.Is(err, repository.ErrDuplicateRecord) {
				tracing.TraceErr(span, err)
				return err
			}
			// Another delivery created it first; reload.
			thread, err = s.repositories.MessageThreadRepository.GetByPetAndCounterparty(ctx, pet.ID, counterparty)
			if err != nil {
				tracing.TraceErr(span, err)
				return err
			}
			if thread == nil {
				err = errors.New("thread vanished after duplicate create")
				tracing.TraceErr(span, err)
				return err
			}
		}
	}

	sentAt := utils.Now()
	message := &models.ThreadMessage{
		ThreadID:    thread.ID,
		Direction:   enum.MessageInbound,
		FromAddress: counterparty,
		ToAddress:   fmt.Sprintf("%s@%s", pet.MailboxAlias, s.mailDomain),
		Subject:     utils.NormalizeEmailSubject(email.Subject),
		BodyText:    cleanedText,
		BodyHTML:    cleanedHTML,
		SentAt:      &sentAt,
	}
	if _, err := s.repositories.ThreadMessageRepository.Create(ctx, message); err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	if err := s.repositories.MessageThreadRepository.RecordNewMessage(ctx, thread.ID, sentAt); err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

// newReplyAddress mints a system-wide unique reply-routing address for a thread.
func (s *ingestionService) newReplyAddress() string {
	return fmt.Sprintf("%s@%s", utils.GenerateNanoIDWithPrefix("reply", 16), s.replyDomain)
}
