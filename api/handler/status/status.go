package status

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/solcore-labs/corecollection/config"
	"github.com/solcore-labs/corecollection/types"
)

// GetStatus handles GET /status
// @Summary Status check
// @Description Get current indexer status including cluster and the last indexed slot
// @Tags App
// @Accept json
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /indexer/status [get]
func (h *StatusHandler) GetStatus(c *fiber.Ctx) error {
	ctx, cancel := h.QueryContext(c)
	defer cancel()

	var seqInfo types.CollectedSeqInfo
	if err := h.GetDatabase().WithContext(ctx).
		Where("name = ?", string(types.SeqInfoProgramSignature)).
		First(&seqInfo).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.TrackError("status_error")
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(&StatusResponse{
		Version:    config.Version,
		CommitHash: config.CommitHash,
		Cluster:    h.GetCluster(),
		ProgramId:  h.GetClusterConfig().GetProgramID().String(),
		Slot:       seqInfo.Sequence,
		Signature:  seqInfo.Cursor,
	})
}
