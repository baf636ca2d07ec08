package service

import (
	"mime/multipart"
	"strings"

	"github.com/minishop/internal/logger"
	"github.com/minishop/internal/models"
	"github.com/minishop/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品业务服务
type ProductService struct {
	repo          repository.ProductRepository
	uploadService *UploadService
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, uploadService *UploadService) *ProductService {
	return &ProductService{repo: repo, uploadService: uploadService}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Image       *multipart.FileHeader
}

func validateProductInput(input ProductInput) error {
	ve := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		ve.Add("商品名称不能为空")
	}
	if input.Price.LessThan(decimal.Zero) {
		ve.Add("价格不能为负数")
	}
	if input.Stock < 0 {
		ve.Add("库存不能为负数")
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// List 商品列表
func (s *ProductService) List(search string, page, pageSize int) ([]models.Product, int64, error) {
	filter := repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(search),
	}
	return s.repo.List(filter)
}

// GetByID 获取商品详情
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       models.NewMoneyFromDecimal(input.Price),
		Stock:       input.Stock,
	}

	if input.Image != nil {
		filename, err := s.uploadService.SaveFile(input.Image)
		if err != nil {
			return nil, err
		}
		product.ImageFile = &filename
	}

	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update 更新商品
// 替换图片时尽力删除旧文件，删除失败只记日志。
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.Price = models.NewMoneyFromDecimal(input.Price)
	product.Stock = input.Stock

	if input.Image != nil {
		filename, err := s.uploadService.SaveFile(input.Image)
		if err != nil {
			return nil, err
		}
		if product.ImageFile != nil {
			if err := s.uploadService.RemoveFile(*product.ImageFile); err != nil {
				logger.Warnw("product_old_image_remove_failed", "product_id", product.ID, "file", *product.ImageFile, "error", err)
			}
		}
		product.ImageFile = &filename
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品
// 被订单项引用的商品不允许删除；购物车项随外键级联清理。
func (s *ProductService) Delete(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	referenced, err := s.repo.CountReferencingOrderItems(id)
	if err != nil {
		return err
	}
	if referenced > 0 {
		return ErrProductInUse
	}

	// 先清理图片文件再删行，文件删除失败不阻塞
	if product.ImageFile != nil {
		if err := s.uploadService.RemoveFile(*product.ImageFile); err != nil {
			logger.Warnw("product_image_remove_failed", "product_id", id, "file", *product.ImageFile, "error", err)
		}
	}

	return s.repo.Delete(id)
}
