package prompt

// TPCDSExamples returns the canned TPC-DS optimization examples used as
// few-shot material: IN-subquery unnesting, predicate pushdown, and
// EXISTS-to-JOIN conversion.
func TPCDSExamples() []FewShotExample {
	return []FewShotExample{
		{
			OriginalSQL: `SELECT * FROM customer
WHERE c_customer_sk IN (
    SELECT ss_customer_sk FROM store_sales
    WHERE ss_sales_price > 100
)`,
			OptimizedSQL: `SELECT DISTINCT c.*
FROM customer c
INNER JOIN store_sales ss ON c.c_customer_sk = ss.ss_customer_sk
WHERE ss.ss_sales_price > 100`,
			Explanation:  "Converted IN subquery to INNER JOIN for better performance",
			SpeedupRatio: 3.2,
		},
		{
			OriginalSQL: `SELECT * FROM (
    SELECT * FROM orders o
    JOIN order_items oi ON o.order_id = oi.order_id
) t
WHERE t.order_date > '2023-01-01'`,
			OptimizedSQL: `SELECT *
FROM orders o
JOIN order_items oi ON o.order_id = oi.order_id
WHERE o.order_date > '2023-01-01'`,
			Explanation:  "Pushed predicate down to reduce intermediate result size",
			SpeedupRatio: 2.5,
		},
		{
			OriginalSQL: `SELECT c_customer_id, c_first_name, c_last_name
FROM customer c
WHERE EXISTS (
    SELECT 1 FROM store_sales ss
    WHERE ss.ss_customer_sk = c.c_customer_sk
    AND ss.ss_sales_price > 50
)`,
			OptimizedSQL: `SELECT DISTINCT c.c_customer_id, c.c_first_name, c.c_last_name
FROM customer c
INNER JOIN store_sales ss ON c.c_customer_sk = ss.ss_customer_sk
WHERE ss.ss_sales_price > 50`,
			Explanation:  "Converted EXISTS to JOIN to leverage indexes",
			SpeedupRatio: 4.1,
		},
	}
}
